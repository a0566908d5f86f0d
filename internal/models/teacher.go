package models

// Teacher levels.
const (
	LevelSenior = "Senior"
	LevelMiddle = "Middle"
	LevelJunior = "Junior"
)

// DefaultTeacherPath is the backend collection serving teachers.
const DefaultTeacherPath = "/teacher"

// TeacherKind describes teacher records stored at collectionPath.
func TeacherKind(collectionPath string) Kind {
	if collectionPath == "" {
		collectionPath = DefaultTeacherPath
	}
	return Kind{
		Name:           "teacher",
		Plural:         "teachers",
		Title:          "Teacher",
		CollectionPath: collectionPath,
		Route:          "/teacher",
		FirstNameLabel: "Name",
		CategoryField:  "level",
		CategoryLabel:  "Level",
		Categories:     []string{LevelSenior, LevelMiddle, LevelJunior},
	}
}
