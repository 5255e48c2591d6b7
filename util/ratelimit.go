// Copyright 2023 The Cuber Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package util

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitedHandler throttles requests to next to ratePerSecond with a
// burst of the same size, answering 429 past that. It is the HTTP-route
// analogue of limiter.Limiter's byte-rate reader/writer wrapping, scaled
// down to request counts since a read-only graph server has no per-I/O-byte
// budget to enforce.
func RateLimitedHandler(ratePerSecond int, next http.Handler) http.Handler {
	lim := rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !lim.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
