// Package frame wraps one encoded tree in a small self-checking container for
// storage or transport.
//
// The tree format itself has no header and no integrity check. A frame adds
// both without touching the tree bytes:
//
//	┌──────────────────────────────────────────────┐
//	│ Header (24 bytes, little-endian)             │
//	│  0-1   Magic            uint16 (0xC7E1)      │
//	│  2     Version          uint8  (1)           │
//	│  3     Flags            uint8  (reserved, 0) │
//	│  4     Compression      uint8                │
//	│  5     Checksum         uint8                │
//	│  6-7   Reserved         uint16 (0)           │
//	│  8-15  RawLength        uint64               │
//	│  16-23 StoredLength     uint64               │
//	├──────────────────────────────────────────────┤
//	│ Checksum of the raw tree (0, 8 or 32 bytes)  │
//	├──────────────────────────────────────────────┤
//	│ Payload (StoredLength bytes)                 │
//	│  - the tree, compressed if Compression≠None  │
//	└──────────────────────────────────────────────┘
//
// The checksum covers the uncompressed tree so it is independent of the
// compression used. Decoding verifies lengths and the checksum before
// returning the tree, after which tree.NewOwned can trust it.
package frame
