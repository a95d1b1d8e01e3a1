package utils

// DefaultBufferSize is the read buffer used by segment fetchers.
const DefaultBufferSize = 1024 * 1024

const DefaultUserAgent = "parget/1.0"
