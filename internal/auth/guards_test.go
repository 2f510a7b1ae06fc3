package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/rbac"
	"github.com/wirasatya/business-management/pkg/logger"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// mockProvider resolves the session token from context against a fixed table,
// standing in for the external auth provider.
type mockProvider struct {
	identities map[string]*ProviderIdentity
}

func (m *mockProvider) Authenticate(ctx context.Context) (*ProviderIdentity, error) {
	token := internal.SessionTokenFromContext(ctx)
	if identity, ok := m.identities[token]; ok {
		return identity, nil
	}
	return nil, internal.ErrUnauthenticated
}

type mockDirectory struct {
	users       map[string]*DirectoryUser
	returnError error
}

func (m *mockDirectory) GetByEmail(_ context.Context, email string) (*DirectoryUser, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.users[email], nil
}

var _ = ginkgo.Describe("Guard", func() {
	var (
		guard     *Guard
		provider  *mockProvider
		directory *mockDirectory
	)

	ctxFor := func(token string) context.Context {
		return internal.ContextWithSessionToken(context.Background(), token)
	}

	ginkgo.BeforeEach(func() {
		provider = &mockProvider{
			identities: map[string]*ProviderIdentity{
				"tok-viewer":  {ID: "u-viewer", Email: "viewer@example.com", EmailVerified: true},
				"tok-member":  {ID: "u-member", Email: "member@example.com", EmailVerified: true},
				"tok-manager": {ID: "u-manager", Email: "manager@example.com", EmailVerified: true},
				"tok-admin":   {ID: "u-admin", Email: "admin@example.com", EmailVerified: true},
				"tok-ghost":   {ID: "u-ghost", Email: "ghost@example.com", EmailVerified: true},
			},
		}
		directory = &mockDirectory{
			users: map[string]*DirectoryUser{
				"viewer@example.com":  {Name: "Vera Viewer", Role: rbac.RoleViewer},
				"member@example.com":  {Name: "Mira Member", Role: rbac.RoleMember},
				"manager@example.com": {Name: "Mika Manager", Role: rbac.RoleManager},
				"admin@example.com":   {Name: "Ada Admin", Role: rbac.RoleAdmin},
			},
		}
		resolver := NewResolver(provider, directory, logger.LoggerWrapper())
		guard = NewGuard(resolver, logger.LoggerWrapper())
	})

	ginkgo.Describe("RequireAuth", func() {
		ginkgo.It("should resolve identity merging provider id with local role", func() {
			identity, err := guard.RequireAuth(ctxFor("tok-manager"))

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.ID).To(gomega.Equal("u-manager"))
			gomega.Expect(identity.Email).To(gomega.Equal("manager@example.com"))
			gomega.Expect(identity.Role).To(gomega.Equal(rbac.RoleManager))
		})

		ginkgo.It("should fail unauthenticated without a session token", func() {
			_, err := guard.RequireAuth(context.Background())

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnauthenticated))
		})

		ginkgo.It("should fail when the authenticated email has no local user record", func() {
			_, err := guard.RequireAuth(ctxFor("tok-ghost"))

			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})

		ginkgo.It("should see role changes on the very next call", func() {
			identity, err := guard.RequireAuth(ctxFor("tok-member"))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.Role).To(gomega.Equal(rbac.RoleMember))

			directory.users["member@example.com"].Role = rbac.RoleManager

			identity, err = guard.RequireAuth(ctxFor("tok-member"))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.Role).To(gomega.Equal(rbac.RoleManager))
		})

		ginkgo.It("should surface directory failures as internal errors", func() {
			directory.returnError = errors.New("connection reset")

			_, err := guard.RequireAuth(ctxFor("tok-member"))

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))
		})
	})

	ginkgo.Describe("RequirePermission", func() {
		ginkgo.It("should forbid a viewer from finance.view", func() {
			_, err := guard.RequirePermission(ctxFor("tok-viewer"), rbac.PermFinanceView)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeMissingPermission))
		})

		ginkgo.It("should allow a manager finance.view and return the identity", func() {
			identity, err := guard.RequirePermission(ctxFor("tok-manager"), rbac.PermFinanceView)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.ID).To(gomega.Equal("u-manager"))
		})

		ginkgo.It("should fail unauthenticated before forbidden", func() {
			_, err := guard.RequirePermission(context.Background(), rbac.PermFinanceView)

			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnauthenticated))
		})
	})

	ginkgo.Describe("RequireRoleAtLeast", func() {
		ginkgo.It("should allow equal and higher roles", func() {
			_, err := guard.RequireRoleAtLeast(ctxFor("tok-manager"), rbac.RoleManager)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = guard.RequireRoleAtLeast(ctxFor("tok-admin"), rbac.RoleManager)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should forbid lower roles", func() {
			_, err := guard.RequireRoleAtLeast(ctxFor("tok-member"), rbac.RoleManager)

			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInsufficientRole))
		})
	})

	ginkgo.Describe("RequireOwnershipOrPermission", func() {
		ginkgo.It("should always allow the owner regardless of permission", func() {
			identity, err := guard.RequireOwnershipOrPermission(ctxFor("tok-member"), "u-member", rbac.PermFinanceEdit)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.ID).To(gomega.Equal("u-member"))
		})

		ginkgo.It("should always allow admin", func() {
			_, err := guard.RequireOwnershipOrPermission(ctxFor("tok-admin"), "someone-else", rbac.PermProjectsEdit)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should allow a manager holding the permission on a foreign resource", func() {
			_, err := guard.RequireOwnershipOrPermission(ctxFor("tok-manager"), "someone-else", rbac.PermProjectsEdit)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should forbid a member on a foreign resource even when the member role holds the permission", func() {
			// members hold projects.edit, but elevated non-owner access also
			// requires manager rank
			_, err := guard.RequireOwnershipOrPermission(ctxFor("tok-member"), "someone-else", rbac.PermProjectsEdit)

			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeNotResourceOwner))
		})

		ginkgo.It("should forbid a member on a foreign resource with a permission the role lacks", func() {
			_, err := guard.RequireOwnershipOrPermission(ctxFor("tok-member"), "someone-else", rbac.PermFinanceEdit)

			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
		})
	})

	ginkgo.Describe("RequireTeamMemberOrPermission", func() {
		ginkgo.It("should allow a listed team member", func() {
			_, err := guard.RequireTeamMemberOrPermission(ctxFor("tok-member"),
				[]string{"u-other", "u-member"}, rbac.PermProjectsView)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should forbid a non-member member-role caller", func() {
			_, err := guard.RequireTeamMemberOrPermission(ctxFor("tok-member"),
				[]string{"u-other"}, rbac.PermFinanceView)

			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeNotTeamMember))
		})

		ginkgo.It("should allow admin without membership", func() {
			_, err := guard.RequireTeamMemberOrPermission(ctxFor("tok-admin"), nil, rbac.PermProjectsView)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("CheckPermission", func() {
		ginkgo.It("should convert failures into false", func() {
			gomega.Expect(guard.CheckPermission(context.Background(), rbac.PermFinanceView)).To(gomega.BeFalse())
			gomega.Expect(guard.CheckPermission(ctxFor("tok-viewer"), rbac.PermFinanceView)).To(gomega.BeFalse())
		})

		ginkgo.It("should return true when the permission is held", func() {
			gomega.Expect(guard.CheckPermission(ctxFor("tok-manager"), rbac.PermFinanceView)).To(gomega.BeTrue())
		})
	})
})

var _ = ginkgo.Describe("JWTProvider", func() {
	const secret = "test-provider-secret-test-provider-secret"

	signToken := func(subject, email string, expiresIn time.Duration) string {
		claims := &ProviderClaims{
			Email:         email,
			Name:          "Test User",
			EmailVerified: true,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return token
	}

	ginkgo.It("should authenticate a valid provider token", func() {
		provider := NewJWTProvider(secret)
		ctx := internal.ContextWithSessionToken(context.Background(), signToken("u-1", "user@example.com", time.Hour))

		identity, err := provider.Authenticate(ctx)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(identity.ID).To(gomega.Equal("u-1"))
		gomega.Expect(identity.Email).To(gomega.Equal("user@example.com"))
	})

	ginkgo.It("should reject an expired token", func() {
		provider := NewJWTProvider(secret)
		ctx := internal.ContextWithSessionToken(context.Background(), signToken("u-1", "user@example.com", -time.Minute))

		_, err := provider.Authenticate(ctx)

		appErr, ok := internal.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnauthenticated))
	})

	ginkgo.It("should reject a token signed with a different secret", func() {
		provider := NewJWTProvider("another-secret-another-secret-another")
		ctx := internal.ContextWithSessionToken(context.Background(), signToken("u-1", "user@example.com", time.Hour))

		_, err := provider.Authenticate(ctx)

		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should reject an empty context", func() {
		provider := NewJWTProvider(secret)

		_, err := provider.Authenticate(context.Background())

		gomega.Expect(err).To(gomega.Equal(internal.ErrUnauthenticated))
	})
})
