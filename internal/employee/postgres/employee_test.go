package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/employee"
)

func TestEmployeeRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "EmployeeRepository Suite")
}

type SQLiteEmployee struct {
	ID               string          `gorm:"primaryKey"`
	Name             string          `gorm:"column:name;not null"`
	Phone            string          `gorm:"column:phone;not null"`
	Email            *string         `gorm:"column:email"`
	EmergencyContact *string         `gorm:"column:emergency_contact"`
	Status           string          `gorm:"column:status;default:active"`
	EmploymentType   string          `gorm:"column:employment_type"`
	Currency         string          `gorm:"column:currency"`
	Salary           decimal.Decimal `gorm:"column:salary"`
	DateOfJoining    time.Time       `gorm:"column:date_of_joining"`
	DateOfLeaving    *time.Time      `gorm:"column:date_of_leaving"`
	Notes            string          `gorm:"column:notes"`
	IsDeleted        bool            `gorm:"column:is_deleted;default:false"`
	DeleteReason     *string         `gorm:"column:delete_reason"`
	AvatarRef        *string         `gorm:"column:avatar_ref"`
	PayrollStarted   bool            `gorm:"column:payroll_started;default:false"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (SQLiteEmployee) TableName() string {
	return "employees"
}

type SQLiteDocument struct {
	ID         string    `gorm:"primaryKey"`
	EmployeeID string    `gorm:"column:employee_id;index"`
	TypeLabel  string    `gorm:"column:type_label"`
	ContentRef string    `gorm:"column:content_ref"`
	UploadedAt time.Time `gorm:"column:uploaded_at"`
}

func (SQLiteDocument) TableName() string {
	return "employee_documents"
}

var _ = Describe("EmployeeRepository", func() {
	var (
		db   *gorm.DB
		repo employee.Repository
	)

	newRecord := func(id, name string) *employee.Record {
		now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		return &employee.Record{
			ID:             id,
			Name:           name,
			Phone:          "+8801712345678",
			Status:         employee.StatusActive,
			EmploymentType: employee.EmploymentFullTime,
			Currency:       "BDT",
			Salary:         decimal.NewFromInt(55000),
			DateOfJoining:  time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteEmployee{}, &SQLiteDocument{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewEmployeeRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create and GetByID", func() {
		It("should round-trip a record with documents", func() {
			rec := newRecord("emp-1", "Rahim Uddin")
			rec.Documents = []employee.Document{
				{ID: "doc-1", TypeLabel: "nid", ContentRef: "blob://nid/1", UploadedAt: rec.CreatedAt},
				{ID: "doc-2", TypeLabel: "contract", ContentRef: "blob://contract/1", UploadedAt: rec.CreatedAt},
			}

			err := repo.Create(rec)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := repo.GetByID("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).NotTo(BeNil())
			Expect(loaded.Name).To(Equal("Rahim Uddin"))
			Expect(loaded.Salary.Equal(decimal.NewFromInt(55000))).To(BeTrue())
			Expect(loaded.Documents).To(HaveLen(2))
		})

		It("should return nil for an unknown id", func() {
			loaded, err := repo.GetByID("no-such-id")

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should persist field changes", func() {
			rec := newRecord("emp-1", "Rahim Uddin")
			Expect(repo.Create(rec)).To(Succeed())

			rec.Name = "Rahim Uddin Khan"
			rec.Status = employee.StatusSuspended
			Expect(repo.Update(rec)).To(Succeed())

			loaded, err := repo.GetByID("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Name).To(Equal("Rahim Uddin Khan"))
			Expect(loaded.Status).To(Equal(employee.StatusSuspended))
		})

		It("should replace the document set wholesale", func() {
			rec := newRecord("emp-1", "Rahim Uddin")
			rec.Documents = []employee.Document{
				{ID: "doc-1", TypeLabel: "nid", ContentRef: "blob://nid/1", UploadedAt: rec.CreatedAt},
			}
			Expect(repo.Create(rec)).To(Succeed())

			rec.Documents = []employee.Document{
				{ID: "doc-2", TypeLabel: "passport", ContentRef: "blob://passport/1", UploadedAt: rec.CreatedAt},
			}
			Expect(repo.Update(rec)).To(Succeed())

			loaded, err := repo.GetByID("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Documents).To(HaveLen(1))
			Expect(loaded.Documents[0].TypeLabel).To(Equal("passport"))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			a := newRecord("emp-1", "Rahim Uddin")
			b := newRecord("emp-2", "Karim Mia")
			b.CreatedAt = b.CreatedAt.Add(time.Hour)
			c := newRecord("emp-3", "Salma Akter")
			c.CreatedAt = c.CreatedAt.Add(2 * time.Hour)
			c.IsDeleted = true
			for _, rec := range []*employee.Record{a, b, c} {
				Expect(repo.Create(rec)).To(Succeed())
			}
		})

		It("should hide soft-deleted records by default", func() {
			recs, err := repo.List(false, 10, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(2))
		})

		It("should include soft-deleted records when asked", func() {
			recs, err := repo.List(true, 10, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(3))
		})

		It("should order newest first and paginate", func() {
			recs, err := repo.List(true, 2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(2))
			Expect(recs[0].ID).To(Equal("emp-3"))

			rest, err := repo.List(true, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(HaveLen(1))
			Expect(rest[0].ID).To(Equal("emp-1"))
		})
	})

	Describe("MarkPayrollStarted", func() {
		It("should flip the flag once", func() {
			rec := newRecord("emp-1", "Rahim Uddin")
			Expect(repo.Create(rec)).To(Succeed())

			Expect(repo.MarkPayrollStarted("emp-1")).To(Succeed())

			loaded, err := repo.GetByID("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.PayrollStarted).To(BeTrue())
		})
	})
})
