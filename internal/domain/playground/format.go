package playground

// Module formats the compiler can emit.
const (
	FormatCommonJS = "cjs"
	FormatESM      = "esm"
	FormatIIFE     = "iife"
)

// IIFEGlobal is the global variable an iife-format module assigns its exports to.
const IIFEGlobal = "__varplay_exports"
