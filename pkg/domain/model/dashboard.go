package model

// StudentGroup holds all records of one identity
type StudentGroup struct {
	Identity Identity
	Records  []*LogRecord
}

// Label is the group heading, e.g. "Kim (2023001)"
func (x *StudentGroup) Label() string {
	return x.Identity.Label()
}

// Dashboard is the instructor's aggregate view
type Dashboard struct {
	Total  int
	Groups []*StudentGroup
}

// GroupByStudent groups logs by identity. Groups appear in the order their
// identity is first seen in logs; records keep their order in logs.
func GroupByStudent(logs []*LogRecord) []*StudentGroup {
	groups := make([]*StudentGroup, 0)
	index := make(map[Identity]*StudentGroup)

	for _, l := range logs {
		key := l.Identity()
		g, ok := index[key]
		if !ok {
			g = &StudentGroup{Identity: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, l)
	}

	return groups
}

// BuildDashboard groups logs and counts them
func BuildDashboard(logs []*LogRecord) *Dashboard {
	return &Dashboard{
		Total:  len(logs),
		Groups: GroupByStudent(logs),
	}
}
