// Copyright 2026 Can Karabay
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vector

import "context"

// Result is a single similarity search hit.
type Result struct {
	ID       string
	Score    float32
	Content  string
	Vector   []float32
	Metadata map[string]any
}

// Provider is the storage backend for vector similarity search.
// Embeddings are computed externally; providers only store and search
// pre-computed vectors.
type Provider interface {
	// Upsert adds or updates a document with its vector embedding.
	Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]any) error

	// Search finds the topK most similar vectors in a collection.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]Result, error)

	// SearchWithFilter combines vector similarity with metadata equality filtering.
	SearchWithFilter(ctx context.Context, collection string, vector []float32, topK int, filter map[string]any) ([]Result, error)

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Delete removes a document from a collection by ID.
	Delete(ctx context.Context, collection string, id string) error

	// CreateCollection creates a collection if it does not exist.
	CreateCollection(ctx context.Context, collection string, vectorDimension int) error

	// DeleteCollection removes a collection and all its documents.
	DeleteCollection(ctx context.Context, collection string) error

	// Name returns the provider name.
	Name() string

	// Close releases provider resources.
	Close() error
}
