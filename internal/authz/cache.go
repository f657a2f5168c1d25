package authz

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/hodei-artifacts/hodei/internal/policy"
)

// cacheKey derives a stable decision-cache key from the request. Context
// attributes are folded in sorted order so identical requests hash
// identically regardless of map iteration order.
func cacheKey(req policy.Request) string {
	digest := xxhash.New()

	_, _ = digest.WriteString(req.PrincipalID)
	_, _ = digest.WriteString("\x00")
	_, _ = digest.WriteString(req.Action)
	_, _ = digest.WriteString("\x00")
	_, _ = digest.WriteString(req.Resource.ID)
	_, _ = digest.WriteString("\x00")
	_, _ = digest.WriteString(req.Resource.AccountID)

	writeAttrs(digest, req.Resource.Attributes)
	writeAttrs(digest, req.Context)

	return fmt.Sprintf("authz:%x", digest.Sum64())
}

func writeAttrs(digest *xxhash.Digest, attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_, _ = digest.WriteString("\x00")
		_, _ = digest.WriteString(key)
		_, _ = digest.WriteString("=")
		_, _ = digest.WriteString(fmt.Sprintf("%v", attrs[key]))
	}
}
