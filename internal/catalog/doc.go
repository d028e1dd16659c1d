// Package catalog persists class declarations in SQLite.
//
// A catalog holds what a schema file holds (classes, parents and ordered
// property candidates) so registries in other processes can resolve
// classes without the original file. It never stores property values.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON, with the parent reference deferred to commit so an
//     import may write a child before its parent
//
// Each class row carries the content hash from schema.Hash; re-importing
// an unchanged class is a no-op.
package catalog
