package project

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/auth"
	"github.com/wirasatya/business-management/internal/rbac"
	"github.com/wirasatya/business-management/pkg/logger"
)

func TestProject(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Project Module Suite")
}

type account struct {
	identity auth.ProviderIdentity
	role     rbac.Role
}

// mockProvider resolves the session token in the context against a fixed
// account table, standing in for the external auth provider.
type mockProvider struct {
	accounts map[string]account
}

func (m *mockProvider) Authenticate(ctx context.Context) (*auth.ProviderIdentity, error) {
	token := internal.SessionTokenFromContext(ctx)
	if acct, ok := m.accounts[token]; ok {
		copied := acct.identity
		return &copied, nil
	}
	return nil, internal.ErrUnauthenticated
}

type mockDirectory struct {
	accounts map[string]account
}

func (m *mockDirectory) GetByEmail(_ context.Context, email string) (*auth.DirectoryUser, error) {
	for _, acct := range m.accounts {
		if acct.identity.Email == email {
			return &auth.DirectoryUser{Name: acct.identity.Name, Role: acct.role}, nil
		}
	}
	return nil, nil
}

type mockRepository struct {
	projects map[string]*Project
}

func newMockRepository() *mockRepository {
	return &mockRepository{projects: make(map[string]*Project)}
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*Project, error) {
	if proj, ok := m.projects[id]; ok {
		copied := *proj
		return &copied, nil
	}
	return nil, nil
}

func (m *mockRepository) List(_ context.Context) ([]*Project, error) {
	var out []*Project
	for _, proj := range m.projects {
		copied := *proj
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, p *Project) error {
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockRepository) Update(_ context.Context, p *Project) error {
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

var _ = ginkgo.Describe("Project Service", func() {
	var (
		repo    *mockRepository
		service *Service
	)

	accounts := map[string]account{
		"tok-admin": {
			identity: auth.ProviderIdentity{ID: "u-admin", Email: "admin@example.com", Name: "Agung"},
			role:     rbac.RoleAdmin,
		},
		"tok-manager": {
			identity: auth.ProviderIdentity{ID: "u-manager", Email: "manager@example.com", Name: "Made"},
			role:     rbac.RoleManager,
		},
		"tok-owner": {
			identity: auth.ProviderIdentity{ID: "u-owner", Email: "owner@example.com", Name: "Wayan"},
			role:     rbac.RoleMember,
		},
		"tok-member": {
			identity: auth.ProviderIdentity{ID: "u-member", Email: "member@example.com", Name: "Nyoman"},
			role:     rbac.RoleMember,
		},
		"tok-viewer": {
			identity: auth.ProviderIdentity{ID: "u-viewer", Email: "viewer@example.com", Name: "Ketut"},
			role:     rbac.RoleViewer,
		},
	}

	as := func(token string) context.Context {
		return internal.ContextWithSessionToken(context.Background(), token)
	}

	ginkgo.BeforeEach(func() {
		lg := logger.LoggerWrapper()
		resolver := auth.NewResolver(&mockProvider{accounts: accounts}, &mockDirectory{accounts: accounts}, lg)
		guard := auth.NewGuard(resolver, lg)

		repo = newMockRepository()
		service = NewService(repo, guard, lg)
		service.now = func() time.Time {
			return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("stamps the creator as owner", func() {
			proj, err := service.Create(as("tok-owner"), CreateProjectDTO{Name: "Warehouse Fit-out"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(proj.CreatedBy).To(gomega.Equal("u-owner"))
			gomega.Expect(proj.Status).To(gomega.Equal(StatusActive))
			gomega.Expect(proj.ID).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("denies viewers", func() {
			_, err := service.Create(as("tok-viewer"), CreateProjectDTO{Name: "Warehouse Fit-out"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeMissingPermission))
		})

		ginkgo.It("denies anonymous callers", func() {
			_, err := service.Create(context.Background(), CreateProjectDTO{Name: "Warehouse Fit-out"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnauthenticated))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.Create(as("tok-owner"), CreateProjectDTO{Name: "Owned", TeamIDs: []string{"u-member"}})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = service.Create(as("tok-manager"), CreateProjectDTO{Name: "Managerial"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = service.Create(as("tok-admin"), CreateProjectDTO{Name: "Private"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("returns everything to admins", func() {
			projects, err := service.List(as("tok-admin"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(projects).To(gomega.HaveLen(3))
		})

		ginkgo.It("returns everything to managers holding the view permission", func() {
			projects, err := service.List(as("tok-manager"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(projects).To(gomega.HaveLen(3))
		})

		ginkgo.It("narrows members to owned and team rows", func() {
			projects, err := service.List(as("tok-member"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(projects).To(gomega.HaveLen(1))
			gomega.Expect(projects[0].Name).To(gomega.Equal("Owned"))
		})
	})

	ginkgo.Describe("Get", func() {
		var owned *Project

		ginkgo.BeforeEach(func() {
			var err error
			owned, err = service.Create(as("tok-owner"), CreateProjectDTO{Name: "Owned", TeamIDs: []string{"u-member"}})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("allows the owner and team members", func() {
			_, err := service.Get(as("tok-owner"), owned.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = service.Get(as("tok-member"), owned.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("allows managers via the view permission", func() {
			_, err := service.Get(as("tok-manager"), owned.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("fails NotFound for a missing id", func() {
			_, err := service.Get(as("tok-admin"), "missing")
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeProjectNotFound))
		})
	})

	ginkgo.Describe("Update", func() {
		var owned *Project

		ginkgo.BeforeEach(func() {
			var err error
			owned, err = service.Create(as("tok-owner"), CreateProjectDTO{Name: "Owned"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("lets the owner update", func() {
			name := "Renamed"
			updated, err := service.Update(as("tok-owner"), owned.ID, UpdateProjectDTO{Name: &name})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.Name).To(gomega.Equal("Renamed"))
		})

		ginkgo.It("denies a non-owner member even though members hold the edit permission", func() {
			name := "Hijacked"
			_, err := service.Update(as("tok-member"), owned.ID, UpdateProjectDTO{Name: &name})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeNotResourceOwner))
		})

		ginkgo.It("lets a manager with the edit permission update someone else's project", func() {
			status := StatusArchived
			updated, err := service.Update(as("tok-manager"), owned.ID, UpdateProjectDTO{Status: &status})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.Status).To(gomega.Equal(StatusArchived))
		})

		ginkgo.It("rejects an unknown status", func() {
			status := "paused"
			_, err := service.Update(as("tok-owner"), owned.ID, UpdateProjectDTO{Status: &status})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("Delete", func() {
		var owned *Project

		ginkgo.BeforeEach(func() {
			var err error
			owned, err = service.Create(as("tok-owner"), CreateProjectDTO{Name: "Owned"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("is admin-only, even for the owner", func() {
			err := service.Delete(as("tok-owner"), owned.ID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeMissingPermission))

			gomega.Expect(service.Delete(as("tok-admin"), owned.ID)).To(gomega.Succeed())

			_, err = service.Get(as("tok-admin"), owned.ID)
			appErr, ok = internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeProjectNotFound))
		})
	})
})
