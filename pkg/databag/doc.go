// Package databag implements named collections of JSON documents that
// configuration-automation tooling distributes to managed nodes.
//
// A data bag is a named group of items; each item is one JSON document
// identified by an id. Bags resolve in one of two modes, selected per
// call from the injected config.Config:
//
//   - server mode queries the configuration server (GET data,
//     GET data/<name>) and passes responses through verbatim
//   - solo mode scans one or more local bag roots, where an item is a
//     file at <root>/<name>/<id>.json
//
// Saving a bag is idempotent: an "already exists" conflict from the
// server is treated as success. All operations are synchronous and
// stateless; collaborators (filesystem, server client, configuration)
// are injected explicitly.
package databag
