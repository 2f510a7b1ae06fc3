package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/wirasatya/business-management/internal/rbac"
)

type testResource struct {
	id      string
	owner   string
	members []string
}

func (r testResource) OwnerID() string     { return r.owner }
func (r testResource) MemberIDs() []string { return r.members }

var _ = ginkgo.Describe("FilterAccessible", func() {
	var resources []testResource

	ginkgo.BeforeEach(func() {
		resources = []testResource{
			{id: "r1", owner: "u-member"},
			{id: "r2", owner: "u-other", members: []string{"u-member"}},
			{id: "r3", owner: "u-other"},
			{id: "r4", owner: "u-other", members: []string{"u-third"}},
		}
	})

	ginkgo.It("should return everything for admin", func() {
		admin := &Identity{ID: "u-admin", Role: rbac.RoleAdmin}

		visible := FilterAccessible(admin, resources, rbac.PermProjectsView)

		gomega.Expect(visible).To(gomega.HaveLen(4))
	})

	ginkgo.It("should return everything for a manager holding the permission", func() {
		manager := &Identity{ID: "u-manager", Role: rbac.RoleManager}

		visible := FilterAccessible(manager, resources, rbac.PermFinanceView)

		gomega.Expect(visible).To(gomega.HaveLen(4))
	})

	ginkgo.It("should narrow to owned or team rows for a manager without the permission", func() {
		manager := &Identity{ID: "u-manager", Role: rbac.RoleManager}

		visible := FilterAccessible(manager, resources, rbac.PermFinanceEdit)

		gomega.Expect(visible).To(gomega.BeEmpty())
	})

	ginkgo.It("should keep owned and team rows for a member", func() {
		member := &Identity{ID: "u-member", Role: rbac.RoleMember}

		visible := FilterAccessible(member, resources, rbac.PermProjectsView)

		gomega.Expect(visible).To(gomega.HaveLen(2))
		gomega.Expect(visible[0].id).To(gomega.Equal("r1"))
		gomega.Expect(visible[1].id).To(gomega.Equal("r2"))
	})

	ginkgo.It("should be idempotent", func() {
		member := &Identity{ID: "u-member", Role: rbac.RoleMember}

		once := FilterAccessible(member, resources, rbac.PermProjectsView)
		twice := FilterAccessible(member, once, rbac.PermProjectsView)

		gomega.Expect(twice).To(gomega.Equal(once))
	})

	ginkgo.It("should return an empty slice for a viewer with no rows", func() {
		viewer := &Identity{ID: "u-nobody", Role: rbac.RoleViewer}

		visible := FilterAccessible(viewer, resources, rbac.PermProjectsView)

		gomega.Expect(visible).To(gomega.BeEmpty())
	})
})
