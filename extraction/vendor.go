package extraction

import (
	"fmt"
	"strings"
)

// Vendor identifies the issuing organization of an authorization document.
// Each vendor has its own document layout and therefore its own pattern
// table; Generic covers pasted text with no vendor tag.
type Vendor int

const (
	Generic Vendor = iota
	OneCall
	Corvel
	HomeLink
)

func (v Vendor) String() string {
	switch v {
	case OneCall:
		return "OneCall"
	case Corvel:
		return "Corvel"
	case HomeLink:
		return "HomeLink"
	default:
		return "Generic"
	}
}

// Scanned reports whether the vendor is known to supply image-only
// documents that need an OCR pass instead of text-layer extraction.
func (v Vendor) Scanned() bool {
	return v == Corvel || v == HomeLink
}

// ParseVendor maps a vendor tag from a request to a Vendor. An empty tag
// means generic text input.
func ParseVendor(tag string) (Vendor, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "":
		return Generic, nil
	case "onecall":
		return OneCall, nil
	case "corvel":
		return Corvel, nil
	case "homelink":
		return HomeLink, nil
	}
	return Generic, fmt.Errorf("unknown vendor tag: %q", tag)
}
