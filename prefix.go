package typeid

// MaxPrefixLen is the longest prefix accepted
const MaxPrefixLen = 63

// ValidatePrefix checks a prefix against the TypeID grammar. The rules are
// checked in order and the first failure is returned:
//   - at most MaxPrefixLen bytes
//   - only 'a'-'z' and '_'
//   - no leading or trailing '_'
//   - no "__"
//
// The empty prefix is valid and means "no type".
func ValidatePrefix(prefix string) error {
	if len(prefix) > MaxPrefixLen {
		return formatError(CodePrefixTooLong, prefix, "prefix must be at most 63 characters")
	}
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if (c < 'a' || c > 'z') && c != '_' {
			return formatError(CodePrefixCharacter, prefix, "prefix may only contain a-z and '_'")
		}
	}
	if prefix == "" {
		return nil
	}
	if prefix[0] == '_' || prefix[len(prefix)-1] == '_' {
		return formatError(CodePrefixEdgeUnderscore, prefix, "prefix must not start or end with '_'")
	}
	for i := 1; i < len(prefix); i++ {
		if prefix[i] == '_' && prefix[i-1] == '_' {
			return formatError(CodePrefixDoubleUnderscore, prefix, "prefix must not contain '__'")
		}
	}
	return nil
}
