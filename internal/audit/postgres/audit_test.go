package postgres_test

import (
	"testing"
	"time"

	"github.com/rumahkita/property-management/internal/audit"
	auditPostgres "github.com/rumahkita/property-management/internal/audit/postgres"
	auditDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/audit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAuditPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Postgres Suite")
}

// SQLiteAuditLog is a SQLite-compatible model for testing
type SQLiteAuditLog struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     int64     `gorm:"column:user_id;not null"`
	ActionType string    `gorm:"column:action_type;not null"`
	TableName_ string    `gorm:"column:table_name;not null"`
	OldValues  *string   `gorm:"column:old_values"`
	NewValues  *string   `gorm:"column:new_values"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (SQLiteAuditLog) TableName() string {
	return "audit_logs"
}

var _ = Describe("Audit PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo audit.RepositoryAPI
	)

	seed := func(userID int64, actionType, tableName string, createdAt time.Time) {
		err := db.Create(&auditDatamodel.AuditLog{
			UserID:     userID,
			ActionType: actionType,
			TableName_: tableName,
			CreatedAt:  createdAt,
		}).Error
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteAuditLog{})
		Expect(err).NotTo(HaveOccurred())

		repo = auditPostgres.NewAuditRepository(db)
	})

	Describe("Create", func() {
		It("should persist an entry", func() {
			newVals := `{"status":"active"}`
			entry := &auditDatamodel.AuditLog{
				UserID:     1,
				ActionType: audit.ActionCreate,
				TableName_: "leases",
				NewValues:  &newVals,
				CreatedAt:  time.Now(),
			}

			err := repo.Create(entry)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ID).To(BeNumerically(">", 0))
		})
	})

	Describe("GetAll", func() {
		BeforeEach(func() {
			now := time.Now()
			seed(1, audit.ActionCreate, "leases", now.Add(-48*time.Hour))
			seed(1, audit.ActionUpdate, "leases", now.Add(-24*time.Hour))
			seed(2, audit.ActionDelete, "invoices", now)
		})

		It("should return newest entries first", func() {
			logs, err := repo.GetAll(audit.QueryFilter{Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(3))
			Expect(logs[0].ActionType).To(Equal(audit.ActionDelete))
		})

		It("should filter by user", func() {
			logs, err := repo.GetAll(audit.QueryFilter{UserID: 1, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))
		})

		It("should filter by action type and table name", func() {
			logs, err := repo.GetAll(audit.QueryFilter{ActionType: audit.ActionUpdate, TableName: "leases", Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
		})

		It("should filter by date range", func() {
			logs, err := repo.GetAll(audit.QueryFilter{
				From:  time.Now().Add(-30 * time.Hour),
				To:    time.Now().Add(-1 * time.Hour),
				Limit: 10,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].ActionType).To(Equal(audit.ActionUpdate))
		})

		It("should paginate with limit and offset", func() {
			logs, err := repo.GetAll(audit.QueryFilter{Limit: 2, Offset: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))

			rest, err := repo.GetAll(audit.QueryFilter{Limit: 2, Offset: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(HaveLen(1))
		})
	})

	Describe("GetByID", func() {
		It("should return nil for a missing entry", func() {
			entry, err := repo.GetByID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry).To(BeNil())
		})

		It("should return the stored entry", func() {
			seed(5, audit.ActionCreate, "units", time.Now())

			logs, err := repo.GetAll(audit.QueryFilter{Limit: 1})
			Expect(err).NotTo(HaveOccurred())

			entry, err := repo.GetByID(logs[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry).NotTo(BeNil())
			Expect(entry.UserID).To(Equal(int64(5)))
		})
	})
})
