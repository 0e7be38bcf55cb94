package project

import (
	"crypto/sha256"
	"io"
	"sort"
)

// Digest is a SHA-256 digest used for cache invalidation.
type Digest [sha256.Size]byte

// Digest hashes every manifest setting that influences generated
// output. Two manifests with the same digest produce byte-identical
// code for the same source. A nil manifest hashes the defaults.
func (m *Manifest) Digest() Digest {
	h := sha256.New()
	writeField(h, m.GenPackage())
	writeField(h, m.RuntimeImport())
	if m != nil {
		writeField(h, m.Config.Generate.OutDir)
	} else {
		writeField(h, "")
	}

	imports := m.ImportsMap()
	qualifiers := make([]string, 0, len(imports))
	for q := range imports {
		qualifiers = append(qualifiers, q)
	}
	sort.Strings(qualifiers)
	for _, q := range qualifiers {
		writeField(h, q)
		writeField(h, imports[q])
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func writeField(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
	_, _ = w.Write([]byte{0})
}
