// Package fake generates random widget payloads for tests.
package fake

import "math/rand"

const maxDepth = 4

// JSON returns a random object of string leaves and nested objects.
func JSON() map[string]any {
	return object(0)
}

func object(depth int) map[string]any {
	nkeys := 1 + rand.Intn(8)
	obj := make(map[string]any, nkeys)

	for i := 0; i < nkeys; i++ {
		key := String(1 + rand.Intn(16))
		if depth+1 >= maxDepth || rand.Intn(100) < 70 {
			obj[key] = String(1 + rand.Intn(32))
		} else {
			obj[key] = object(depth + 1)
		}
	}

	return obj
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
