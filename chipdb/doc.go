// Package chipdb is the chip directory: it maps the protocol's select index
// to the immutable geometry of a supported NAND part.
//
// The built-in table covers common parallel and SPI NAND parts; callers that
// target other silicon construct a Directory with their own entries.
package chipdb
