package x509util

import (
	"crypto/x509/pkix"
	"fmt"
	"strings"
)

// NormalizeSubjectDN rewrites the `S=` attribute key to `ST=` (the
// state/province RDN) in a subject DN string. No other attribute is
// touched.
func NormalizeSubjectDN(dn string) string {
	parts := strings.Split(dn, ",")
	for i, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.ToUpper(strings.TrimSpace(kv[0])) == "S" {
			parts[i] = "ST=" + kv[1]
		}
	}
	return strings.Join(parts, ",")
}

// ParseSubjectDN parses a subject DN string like
// "CN=Alice, O=Acme, C=US" into pkix.Name.
func ParseSubjectDN(dn string) (pkix.Name, error) {
	name := pkix.Name{}

	if dn == "" {
		return name, fmt.Errorf("subject DN cannot be empty")
	}

	parts := strings.Split(dn, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return name, fmt.Errorf("invalid DN component: %s", part)
		}

		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])

		switch key {
		case "CN":
			name.CommonName = value
		case "O":
			name.Organization = append(name.Organization, value)
		case "OU":
			name.OrganizationalUnit = append(name.OrganizationalUnit, value)
		case "C":
			name.Country = append(name.Country, value)
		case "ST":
			name.Province = append(name.Province, value)
		case "L":
			name.Locality = append(name.Locality, value)
		case "SERIALNUMBER":
			name.SerialNumber = value
		default:
			return name, fmt.Errorf("unknown DN attribute: %s", key)
		}
	}

	return name, nil
}
