package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store backed by the given client. Intended for
// tests with a mock client.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
