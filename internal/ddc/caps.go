package ddc

import (
	"strconv"
	"strings"
)

// parseCapabilities extracts the vcp feature table and the model name from a
// raw MCCS capability string such as
//
//	(prot(monitor)type(lcd)model(U2723QE)vcp(02 10 60(0F 11 1B) D6(01 04))...)
//
// Unparseable fragments are skipped rather than reported; capability data is
// best-effort throughout.
func parseCapabilities(raw string) (map[FeatureCode]Feature, string) {
	features := make(map[FeatureCode]Feature)
	model := ""

	if body, ok := capabilityGroup(raw, "model"); ok {
		model = strings.TrimSpace(body)
	}

	body, ok := capabilityGroup(raw, "vcp")
	if !ok {
		return features, model
	}

	i := 0
	for i < len(body) {
		c := body[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		start := i
		for i < len(body) && isHexDigit(body[i]) {
			i++
		}
		if i == start {
			// Not a hex token; skip one byte to make progress.
			i++
			continue
		}
		code, err := strconv.ParseUint(body[start:i], 16, 8)
		if err != nil {
			continue
		}
		feature := Feature{Code: FeatureCode(code)}
		if i < len(body) && body[i] == '(' {
			depth := 0
			valueStart := i + 1
			for ; i < len(body); i++ {
				if body[i] == '(' {
					depth++
				} else if body[i] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if i < len(body) {
				feature.Values = parseFeatureValues(body[valueStart:i])
				i++
			}
		}
		features[FeatureCode(code)] = feature
	}
	return features, model
}

// capabilityGroup returns the contents of the first "name(...)" group,
// honoring nested parentheses.
func capabilityGroup(raw, name string) (string, bool) {
	search := raw
	offset := 0
	for {
		idx := strings.Index(search, name+"(")
		if idx < 0 {
			return "", false
		}
		// Reject matches that are a suffix of a longer identifier.
		if idx > 0 && isIdentByte(search[idx-1]) {
			offset += idx + len(name)
			search = raw[offset:]
			continue
		}
		start := offset + idx + len(name) + 1
		depth := 1
		for i := start; i < len(raw); i++ {
			switch raw[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return raw[start:i], true
				}
			}
		}
		return "", false
	}
}

func parseFeatureValues(body string) []uint16 {
	var values []uint16
	for _, token := range strings.Fields(body) {
		value, err := strconv.ParseUint(token, 16, 8)
		if err != nil {
			continue
		}
		values = append(values, uint16(value))
	}
	return values
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
