package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NanoID returns a fresh row identifier at the default size.
func NanoID() string {
	return NanoIDSize(NanoidSize)
}

// NanoIDSize returns a fresh identifier of the given size, falling back
// to the default when size is not positive.
func NanoIDSize(size int) string {
	if size <= 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}
