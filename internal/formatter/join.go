package formatter

import (
	"regexp"
	"strings"
)

// Foreign keys are emitted before the referenced table's type name is known,
// so GenerateTable leaves a marker carrying the raw table name:
//
//	$type: null as unknown /* users */
//
// AttachJoinTypes later turns it into
//
//	$type: null as unknown as Users
//
// The name is percent-encoded for '%' and '*' so it can neither end the
// comment nor be mistaken for its end.
var joinMarkerRE = regexp.MustCompile(`(\$type: null as unknown) /\* ([^*]+) \*/`)

var (
	markerEscaper   = strings.NewReplacer("%", "%25", "*", "%2A")
	markerUnescaper = strings.NewReplacer("%25", "%", "%2A", "*")
)

func joinMarker(table string) string {
	return "$type: null as unknown /* " + markerEscaper.Replace(table) + " */"
}

// AttachJoinTypes replaces every join marker whose table is in names with a
// reference to that table's select type. Markers for unknown tables are left
// untouched, so resolving twice is the same as resolving once.
func AttachJoinTypes(ts string, names NameMap) string {
	return joinMarkerRE.ReplaceAllStringFunc(ts, func(match string) string {
		m := joinMarkerRE.FindStringSubmatch(match)
		n, ok := names[markerUnescaper.Replace(m[2])]
		if !ok {
			return match
		}
		return m[1] + " as " + n.Type
	})
}

// UnresolvedJoins returns the raw table names of markers still present in ts.
func UnresolvedJoins(ts string) []string {
	var tables []string
	for _, m := range joinMarkerRE.FindAllStringSubmatch(ts, -1) {
		tables = append(tables, markerUnescaper.Replace(m[2]))
	}
	return tables
}
