package service

import "github.com/stemsi/ejurnal-backend/internal/model"

// DistributeRoundRobin assigns the i-th student to class i mod len(classes).
// It returns nil when there are no classes.
func DistributeRoundRobin(students []*model.Student, classes []*model.Class) []model.ClassAssignment {
	if len(classes) == 0 {
		return nil
	}

	out := make([]model.ClassAssignment, len(students))
	for i, st := range students {
		out[i] = model.ClassAssignment{
			StudentID: st.ID,
			ClassID:   classes[i%len(classes)].ID,
		}
	}
	return out
}
