package types

// ID type aliases provide semantic meaning and keep user, project and task
// identifiers from being mixed up at call sites.

// UserID identifies a registered user
type UserID int

// ProjectID identifies a project owned by exactly one user
type ProjectID int

// TaskID identifies a task inside a project
type TaskID int

// ToInt converts type alias back to int for compatibility with storage code
func (id UserID) ToInt() int {
	return int(id)
}

func (id ProjectID) ToInt() int {
	return int(id)
}

func (id TaskID) ToInt() int {
	return int(id)
}

// FromInt creates type aliases from int values
func UserIDFromInt(i int) UserID {
	return UserID(i)
}

func ProjectIDFromInt(i int) ProjectID {
	return ProjectID(i)
}

func TaskIDFromInt(i int) TaskID {
	return TaskID(i)
}
