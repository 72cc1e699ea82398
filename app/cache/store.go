package cache

import (
	"context"
)

// Store is a persistent key-value cache partitioned into named namespaces.
// Each Put/Match/Delete is atomic at entry-key granularity; that atomicity
// is the only synchronization the interleaved request handlers rely on.
type Store interface {
	Match(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error

	Namespaces(ctx context.Context) ([]string, error)
	DeleteNamespace(ctx context.Context, namespace string) error
	Count(ctx context.Context, namespace string) (int, error)

	Close() error
}

// Namespace names are versioned so a new generation can garbage-collect
// every previous generation's entries on activation.

func DynamicNamespace(version string) string {
	return "dynamic-" + version
}

func StaticNamespace(version string) string {
	return "static-" + version
}
