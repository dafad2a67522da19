// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Evidence collection and hashing for schedule findings.

package advisor

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
)

// Evidence is a structured map.
type Evidence map[string]any

// StableID hashes the rule, target and evidence so the same problem keeps
// the same id across regenerations.
func StableID(ruleID, target string, evidence Evidence) string {
	h := sha1.New()
	h.Write([]byte(ruleID))
	h.Write([]byte("|"))
	h.Write([]byte(target))
	keys := make([]string, 0, len(evidence))
	for k := range evidence {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "|%s=%v", k, evidence[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
