package itemserial

// Category names a catalog field group whose bit width and part names
// vary by format version.
type Category string

const (
	// CategoryBalance holds item balance (type and rarity) parts.
	CategoryBalance Category = "InventoryBalanceData"

	// CategoryInventoryData holds inventory data parts.
	CategoryInventoryData Category = "InventoryData"

	// CategoryManufacturer holds manufacturer parts.
	CategoryManufacturer Category = "ManufacturerData"
)

// HeaderCategories lists the categories of a serial header in wire order.
var HeaderCategories = [...]Category{
	CategoryBalance,
	CategoryInventoryData,
	CategoryManufacturer,
}

// Compression identifies how a catalog document is compressed at rest.
type Compression string

const (
	// CompressionNone stores the document as-is.
	CompressionNone Compression = "none"

	// CompressionZstd uses a zstd frame.
	CompressionZstd Compression = "zstd"

	// CompressionLZ4 uses an LZ4 frame.
	CompressionLZ4 Compression = "lz4"
)

// FingerprintAlgo represents a supported fingerprint hash.
type FingerprintAlgo string

const (
	// FingerprintSHA256 uses SHA-256.
	FingerprintSHA256 FingerprintAlgo = "sha256"

	// FingerprintBlake2b uses BLAKE2b-256.
	FingerprintBlake2b FingerprintAlgo = "blake2b"

	// FingerprintBlake3 uses BLAKE3 with a 256-bit output.
	FingerprintBlake3 FingerprintAlgo = "blake3"
)

// validCompressions contains all valid compression names.
var validCompressions = map[Compression]bool{
	CompressionNone: true,
	CompressionZstd: true,
	CompressionLZ4:  true,
}

// validFingerprintAlgos contains all valid fingerprint algorithms.
var validFingerprintAlgos = map[FingerprintAlgo]bool{
	FingerprintSHA256:  true,
	FingerprintBlake2b: true,
	FingerprintBlake3:  true,
}

// IsValidCompression returns true if c is a known compression.
func IsValidCompression(c Compression) bool {
	return validCompressions[c]
}

// IsValidFingerprintAlgo returns true if the algorithm is known.
func IsValidFingerprintAlgo(algo FingerprintAlgo) bool {
	return validFingerprintAlgos[algo]
}
