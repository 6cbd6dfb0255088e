package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newReference genera referencias legibles del tipo TRF-20260115-3F9A1C.
func newReference(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return prefix + "-" + at.Format("20060102") + "-" + suffix
}

// sortedKeys devuelve las claves en orden ascendente: es el orden global de bloqueo.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
