package web

import (
	"net"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"internbot/internal/config"
)

// Лимитеры по IP, неактивные вычищаются по TTL
var limiters = gocache.New(10*time.Minute, 10*time.Minute)

func limiterFor(ip string) *rate.Limiter {
	if v, ok := limiters.Get(ip); ok {
		if limiter, ok := v.(*rate.Limiter); ok {
			return limiter
		}
	}

	rps := config.File.WebConfig.RPS
	limiter := rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	limiters.SetDefault(ip, limiter)
	return limiter
}

// LimitMiddleware ограничивает количество запросов от одного IP
func LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !limiterFor(ip).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
