package report

import (
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/curriculum"
	"github.com/trezcool/shule/core/student"
)

type Service struct {
	students    *student.Service
	curriculum  *curriculum.Service
	assessments *assessment.Service
	mail        core.EmailService
}

func NewService(
	stdSvc *student.Service,
	currSvc *curriculum.Service,
	asmtSvc *assessment.Service,
	mailSvc core.EmailService,
) *Service {
	return &Service{
		students:    stdSvc,
		curriculum:  currSvc,
		assessments: asmtSvc,
		mail:        mailSvc,
	}
}

// BuildReport computes a student's progress report. areaID == "" includes
// every Learning Area the student is enrolled in; otherwise the walk and the
// rollups are restricted to that area's subtree.
//
// The report is recomputed from the underlying rows on every call; nothing is
// stored. Either a complete report is produced or an error is returned, there
// is no partial recovery.
func (svc *Service) BuildReport(studentID, areaID string) (Document, error) {
	stu, err := svc.students.GetByID(studentID)
	if err != nil {
		return Document{}, err
	}

	var trees []curriculum.AreaTree
	if areaID != "" {
		tree, err := svc.curriculum.Tree(areaID)
		if err != nil {
			return Document{}, err
		}
		trees = []curriculum.AreaTree{tree}
	} else {
		if trees, err = svc.curriculum.TreesForStudent(stu.ID); err != nil {
			return Document{}, err
		}
	}

	asmts, err := svc.assessments.StudentAssessments(stu.ID, areaID)
	if err != nil {
		return Document{}, errors.Wrap(err, "loading assessments")
	}
	attempts, quizzes, err := svc.assessments.StudentGradedAttempts(stu.ID, areaID)
	if err != nil {
		return Document{}, errors.Wrap(err, "loading quiz attempts")
	}

	records := assessment.Normalize(asmts, quizzes, attempts)
	resolved := assessment.Resolve(records)
	overall, areas := aggregate(trees, resolved)

	return Document{
		Student: StudentInfo{
			Name:      stu.FullName(),
			StudentID: stu.StudentID,
			Grade:     stu.Grade,
			Email:     stu.Email,
		},
		ReportDate:    NewDate(time.Now()),
		OverallStats:  overall,
		LearningAreas: areas,
	}, nil
}

// ClassSummary aggregates per-student assessment counts across one Learning
// Area. It counts raw CompetencyAssessment rows without outcome resolution.
func (svc *Service) ClassSummary(areaID string) (ClassSummary, error) {
	area, err := svc.curriculum.GetArea(areaID)
	if err != nil {
		return ClassSummary{}, err
	}

	students, err := svc.students.Filter(student.QueryFilter{LearningAreaID: area.ID})
	if err != nil {
		return ClassSummary{}, errors.Wrap(err, "querying enrolled students")
	}

	summary := ClassSummary{
		LearningArea: ClassAreaInfo{
			Name:       area.Name,
			Code:       area.Code,
			GradeLevel: area.GradeLevel,
		},
		TotalStudents: len(students),
		Students:      make([]StudentProgress, 0, len(students)),
	}

	for _, stu := range students {
		asmts, err := svc.assessments.Filter(assessment.QueryFilter{StudentID: stu.ID, LearningAreaID: area.ID})
		if err != nil {
			return ClassSummary{}, errors.Wrapf(err, "loading assessments for student %s", stu.ID)
		}
		breakdown := Breakdown{}
		for _, asmt := range asmts {
			breakdown[asmt.Level]++
		}
		summary.Students = append(summary.Students, StudentProgress{
			StudentName:      stu.FullName(),
			StudentID:        stu.StudentID,
			TotalAssessments: len(asmts),
			Breakdown:        breakdown,
		})
	}

	return summary, nil
}

// SendSummary emails the plain-text summary as an attachment. With no
// explicit recipients it falls back to the student's own email address.
func (svc *Service) SendSummary(studentID, areaID string, to ...mail.Address) error {
	doc, err := svc.BuildReport(studentID, areaID)
	if err != nil {
		return err
	}

	if len(to) == 0 {
		if doc.Student.Email == "" {
			return core.NewValidationError(
				errors.New("no recipients"),
				core.FieldError{Field: "to", Error: "student has no email address; provide recipients"},
			)
		}
		to = []mail.Address{{Name: doc.Student.Name, Address: doc.Student.Email}}
	}

	msg := &core.EmailMessage{
		To:      to,
		Subject: "Progress Report - " + doc.Student.Name,
		Body:    "Please find attached the latest competency progress report for " + doc.Student.Name + ".",
	}
	summary := Summary(doc)
	filename := "progress_report_" + doc.Student.StudentID + ".txt"
	if err := msg.Attach(strings.NewReader(summary), filename, "text/plain"); err != nil {
		return errors.Wrap(err, "attaching summary")
	}

	svc.mail.SendMessages(msg)
	return nil
}
