package models

// Student groups.
const (
	GroupN58 = "N58"
	GroupN40 = "N40"
	GroupN30 = "N30"
)

// DefaultStudentPath is the backend collection serving students. The backend
// names it after the name field rather than the resource.
const DefaultStudentPath = "/name"

// StudentKind describes student records stored at collectionPath.
func StudentKind(collectionPath string) Kind {
	if collectionPath == "" {
		collectionPath = DefaultStudentPath
	}
	return Kind{
		Name:           "student",
		Plural:         "students",
		Title:          "Student",
		CollectionPath: collectionPath,
		Route:          "/students",
		FirstNameLabel: "First Name",
		CategoryField:  "group",
		CategoryLabel:  "Group",
		Categories:     []string{GroupN58, GroupN40, GroupN30},
	}
}
