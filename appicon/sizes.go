package appicon

import (
	"strconv"
	"strings"
)

// SizeAll selects every canonical icon size.
const SizeAll = "all"

// IconSize describes one of the canonical square icon sizes.
type IconSize struct {
	// Pixels is the edge length of the icon.
	Pixels int `json:"pixels"`
	// Usage is where the size is typically shipped.
	Usage string `json:"usage"`
}

// CanonicalSizes lists the sizes generated for SizeAll, largest first.
var CanonicalSizes = []IconSize{
	{Pixels: 1024, Usage: "App Store, macOS 512pt@2x"},
	{Pixels: 512, Usage: "macOS 256pt@2x, 512pt@1x"},
	{Pixels: 256, Usage: "macOS 128pt@2x, 256pt@1x"},
	{Pixels: 128, Usage: "macOS 128pt@1x"},
}

// ParseSizes resolves a size selector into the ordered list of edge lengths
// to generate. An empty selector or "all" yields every canonical size,
// largest first. Anything else must be a positive integer.
//
// Arguments:
// - selector: "all", "", or a decimal pixel count such as "512".
//
// Returns:
// - The sizes to generate, in order.
// - An ErrInvalidArgument error if the selector is not usable.
//
// @example
// sizes, _ := ParseSizes("all") // [1024 512 256 128]
// sizes, _ := ParseSizes("512") // [512]
func ParseSizes(selector string) ([]int, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, SizeAll) {
		sizes := make([]int, len(CanonicalSizes))
		for i, s := range CanonicalSizes {
			sizes[i] = s.Pixels
		}
		return sizes, nil
	}

	size, err := strconv.Atoi(selector)
	if err != nil {
		return nil, invalidArgument("size %q is not a number or %q", selector, SizeAll)
	}
	if size <= 0 {
		return nil, invalidArgument("size must be a positive number, got %d", size)
	}
	return []int{size}, nil
}

// OutputName returns the file name of the icon generated from an input with
// the given base name (without extension).
func OutputName(base string, size int) string {
	return base + "-" + strconv.Itoa(size) + ".png"
}
