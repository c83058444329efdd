package generator

import (
	"path/filepath"
	"strings"

	"github.com/cmmoran/eloquentts/internal/model"
)

// shouldOmitClass reports whether a parsed class is listed in ExcludeClasses.
func shouldOmitClass(c *model.Class, opts *Options) bool {
	if c == nil {
		return true
	}
	return containsFold(opts.ExcludeClasses, c.Name)
}

// isSource reports whether a directory entry name carries the source extension.
func isSource(name string, opts *Options) bool {
	return strings.EqualFold(filepath.Ext(name), opts.SourceExt)
}

// isEnumLike reports whether c renders as an enum: a native enum, or a class
// extending one of EnumBases.
func isEnumLike(c *model.Class, opts *Options) bool {
	if c.IsEnum() {
		return true
	}
	if c.BaseTypeName == "" {
		return false
	}
	for _, b := range opts.EnumBases {
		// bases may be given fully qualified
		if i := strings.LastIndex(b, `\`); i >= 0 {
			b = b[i+1:]
		}
		if c.BaseTypeName == b {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
