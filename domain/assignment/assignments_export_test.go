package assignment_test

import (
	"testing"

	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/domain/assignment"
	"shiftgate/testinfra"

	. "github.com/onsi/gomega"
)

func TestExportShiftAssignments(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should deny a project outsider", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		sec := testinfra.BuildSecCtx(10, "manager_999")
		_, err := assignment.ExportShiftAssignments(&assignment.StatsQuery{ProjectID: 100}, sec)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("should render one row per active assignment", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		buildShift(t, 1, 100, 1)
		buildStudent(t, 20, "alice", 4)
		buildStudent(t, 21, "bob", 4)
		buildAssignment(t, 500, 1, 20, domain.AssignmentStatusAssigned)
		buildAssignment(t, 501, 1, 21, domain.AssignmentStatusAssigned)
		// cancelled assignments stay out of the export
		buildStudent(t, 22, "carol", 4)
		buildAssignment(t, 502, 1, 22, domain.AssignmentStatusCancelled)

		sec := testinfra.BuildSecCtx(10, "manager_100")
		file, err := assignment.ExportShiftAssignments(&assignment.StatsQuery{ProjectID: 100}, sec)
		Expect(err).To(BeNil())

		rows, err := file.GetRows("Assignments")
		Expect(err).To(BeNil())
		Expect(len(rows)).To(Equal(3))
		Expect(rows[0]).To(Equal([]string{"studentName", "shiftDate", "shiftDay", "shiftType",
			"startTime", "stopTime", "requiresStudents", "assignedCount", "isExtra"}))
		Expect(rows[1][0]).To(Equal("alice"))
		Expect(rows[1][1]).To(Equal("2021-06-07"))
		Expect(rows[1][2]).To(Equal("monday"))
		Expect(rows[1][6]).To(Equal("1"))
		Expect(rows[1][7]).To(Equal("2"))
		Expect(rows[2][0]).To(Equal("bob"))
	})
}
