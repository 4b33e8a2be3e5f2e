package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// fixedWindow считает запросы каждого клиента в окне фиксированной длины
type fixedWindow struct {
	limit     int
	length    time.Duration
	mtx       sync.Mutex
	clients   map[string]*window
	lastSweep time.Time
}

func newFixedWindow(limit int, length time.Duration) *fixedWindow {
	return &fixedWindow{
		limit:   limit,
		length:  length,
		clients: make(map[string]*window),
	}
}

// take учитывает запрос и возвращает остаток в окне и время его сброса
func (fw *fixedWindow) take(key string, now time.Time) (remaining int, resetAt time.Time, ok bool) {
	fw.mtx.Lock()
	defer fw.mtx.Unlock()

	fw.sweep(now)

	win, found := fw.clients[key]
	if !found || !now.Before(win.resetAt) {
		win = &window{resetAt: now.Add(fw.length)}
		fw.clients[key] = win
	}

	if win.count >= fw.limit {
		return 0, win.resetAt, false
	}
	win.count++
	return fw.limit - win.count, win.resetAt, true
}

// sweep раз в окно убирает истёкших клиентов, иначе карта растёт бесконечно
func (fw *fixedWindow) sweep(now time.Time) {
	if now.Sub(fw.lastSweep) < fw.length {
		return
	}
	fw.lastSweep = now
	for key, win := range fw.clients {
		if !now.Before(win.resetAt) {
			delete(fw.clients, key)
		}
	}
}

// RateLimit ограничивает число запросов с одного IP в минуту, rpm <= 0 отключает лимит
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := newFixedWindow(rpm, time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			remaining, resetAt, ok := limiter.take(clientIP(r), now)

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retryAfter := int(resetAt.Sub(now).Seconds()) + 1
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				writeMessage(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
