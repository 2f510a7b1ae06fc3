package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/wirasatya/business-management/internal/rbac"
	"github.com/wirasatya/business-management/internal/user"
	userPostgres "github.com/wirasatya/business-management/internal/user/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Postgres Suite")
}

var _ = ginkgo.Describe("User Repository", func() {
	var (
		db   *gorm.DB
		repo user.Repository
		ctx  context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(db.AutoMigrate(&user.User{})).To(gomega.Succeed())

		repo = userPostgres.NewUserRepository(db)
		ctx = context.Background()
	})

	pending := func() *user.User {
		token := "m84k2j1x-a1b2c3d4e5"
		return &user.User{
			Email:           "kadek@example.com",
			Name:            "Kadek Surya",
			Role:            rbac.RoleMember,
			Department:      "finance",
			Skills:          []string{"bookkeeping", "reporting"},
			InvitationToken: &token,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
	}

	ginkgo.It("creates and reads back a user by email", func() {
		gomega.Expect(repo.Create(ctx, pending())).To(gomega.Succeed())

		found, err := repo.GetByEmail(ctx, "kadek@example.com")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(found).NotTo(gomega.BeNil())
		gomega.Expect(found.ID).To(gomega.BeNumerically(">", 0))
		gomega.Expect(found.Role).To(gomega.Equal(rbac.RoleMember))
		gomega.Expect(found.Skills).To(gomega.Equal([]string{"bookkeeping", "reporting"}))
		gomega.Expect(found.InvitationToken).NotTo(gomega.BeNil())
	})

	ginkgo.It("returns nil for a missing email", func() {
		found, err := repo.GetByEmail(ctx, "ghost@example.com")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(found).To(gomega.BeNil())
	})

	ginkgo.It("rejects a second row with the same email", func() {
		gomega.Expect(repo.Create(ctx, pending())).To(gomega.Succeed())
		gomega.Expect(repo.Create(ctx, pending())).NotTo(gomega.Succeed())
	})

	ginkgo.It("persists a cleared invitation token", func() {
		row := pending()
		gomega.Expect(repo.Create(ctx, row)).To(gomega.Succeed())

		row.InvitationToken = nil
		row.InvitationAccepted = true
		gomega.Expect(repo.Update(ctx, row)).To(gomega.Succeed())

		found, err := repo.GetByID(ctx, row.ID)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(found.InvitationToken).To(gomega.BeNil())
		gomega.Expect(found.InvitationAccepted).To(gomega.BeTrue())
	})

	ginkgo.It("deletes a row by id", func() {
		row := pending()
		gomega.Expect(repo.Create(ctx, row)).To(gomega.Succeed())
		gomega.Expect(repo.Delete(ctx, row.ID)).To(gomega.Succeed())

		found, err := repo.GetByID(ctx, row.ID)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(found).To(gomega.BeNil())
	})
})
