// Package marketplace contains the domain model for multi-marketplace order
// synchronization: the canonical order schema that Meesho, Amazon and Flipkart
// payloads are normalized into, the per-marketplace configuration, and the
// ports implemented by the infrastructure layer (order adapters, registry,
// repositories).
//
// The package follows the Ports & Adapters pattern: concrete marketplace API
// clients live in internal/infrastructure/ecommerce, persistence lives in
// internal/infrastructure/persistence, and the sync/conversion workflows live
// in internal/application/marketplace.
package marketplace
