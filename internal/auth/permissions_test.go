package auth

import (
	"errors"
	"log/slog"
	"os"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type mockRoleRepository struct {
	rawByUser map[int64]string
	err       error
}

func (m *mockRoleRepository) GetPermissionsForUser(userID int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.rawByUser[userID], nil
}

var _ = ginkgo.Describe("ParsePermissions", func() {
	ginkgo.It("should parse a valid JSON array", func() {
		perms := ParsePermissions(`["leases.create","tenants.view"]`)
		gomega.Expect(perms).To(gomega.Equal([]string{"leases.create", "tenants.view"}))
	})

	ginkgo.It("should return an empty set for an empty string", func() {
		gomega.Expect(ParsePermissions("")).To(gomega.BeEmpty())
	})

	ginkgo.It("should return an empty set for malformed JSON", func() {
		gomega.Expect(ParsePermissions(`["leases.create"`)).To(gomega.BeEmpty())
		gomega.Expect(ParsePermissions(`{"not":"an array"}`)).To(gomega.BeEmpty())
	})

	ginkgo.It("should return an empty set for whitespace", func() {
		gomega.Expect(ParsePermissions("   ")).To(gomega.BeEmpty())
	})
})

var _ = ginkgo.Describe("HasPermission", func() {
	ginkgo.Context("exact matching", func() {
		ginkgo.It("should grant an exactly listed capability", func() {
			set := []string{"leases.create", "tenants.view"}
			gomega.Expect(HasPermission(set, "leases.create")).To(gomega.BeTrue())
		})

		ginkgo.It("should deny a capability that is not listed", func() {
			set := []string{"leases.create"}
			gomega.Expect(HasPermission(set, "leases.delete")).To(gomega.BeFalse())
		})

		ginkgo.It("should deny everything for an empty set", func() {
			gomega.Expect(HasPermission([]string{}, "leases.create")).To(gomega.BeFalse())
			gomega.Expect(HasPermission(nil, "leases.create")).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("global wildcard", func() {
		ginkgo.It("should grant any capability", func() {
			set := []string{"*"}
			gomega.Expect(HasPermission(set, "leases.create")).To(gomega.BeTrue())
			gomega.Expect(HasPermission(set, "anything.at.all")).To(gomega.BeTrue())
			gomega.Expect(HasPermission(set, "single")).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("module wildcard", func() {
		ginkgo.It("should grant capabilities within the module", func() {
			set := []string{"leases.*"}
			gomega.Expect(HasPermission(set, "leases.create")).To(gomega.BeTrue())
			gomega.Expect(HasPermission(set, "leases.delete")).To(gomega.BeTrue())
		})

		ginkgo.It("should not grant capabilities of other modules", func() {
			set := []string{"leases.*"}
			gomega.Expect(HasPermission(set, "tenants.view")).To(gomega.BeFalse())
		})

		ginkgo.It("should not match a bare module name", func() {
			set := []string{"leases.*"}
			gomega.Expect(HasPermission(set, "leases")).To(gomega.BeFalse())
		})

		ginkgo.It("should match only on the first segment", func() {
			set := []string{"leases.*"}
			gomega.Expect(HasPermission(set, "leases.documents.upload")).To(gomega.BeTrue())
		})
	})
})

var _ = ginkgo.Describe("HasAnyPermission and HasAllPermissions", func() {
	set := []string{"leases.*", "audit.view"}

	ginkgo.It("Any should pass when at least one capability is held", func() {
		gomega.Expect(HasAnyPermission(set, []string{"tenants.view", "audit.view"})).To(gomega.BeTrue())
	})

	ginkgo.It("Any should fail when none are held", func() {
		gomega.Expect(HasAnyPermission(set, []string{"tenants.view", "billing.create"})).To(gomega.BeFalse())
	})

	ginkgo.It("Any should fail for an empty requirement list", func() {
		gomega.Expect(HasAnyPermission(set, nil)).To(gomega.BeFalse())
	})

	ginkgo.It("All should pass when every capability is held", func() {
		gomega.Expect(HasAllPermissions(set, []string{"leases.create", "audit.view"})).To(gomega.BeTrue())
	})

	ginkgo.It("All should fail when any capability is missing", func() {
		gomega.Expect(HasAllPermissions(set, []string{"leases.create", "tenants.view"})).To(gomega.BeFalse())
	})

	ginkgo.It("All should pass vacuously for an empty requirement list", func() {
		gomega.Expect(HasAllPermissions(set, nil)).To(gomega.BeTrue())
	})
})

var _ = ginkgo.Describe("PermissionChecker", func() {
	var (
		repo    *mockRoleRepository
		checker *PermissionChecker
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRoleRepository{
			rawByUser: map[int64]string{
				1: `["approvals.submit","tenants.view"]`,
				2: `["*"]`,
				3: `not json`,
			},
		}
		checker = NewPermissionChecker(repo, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	})

	ginkgo.It("should answer capability checks through the repository", func() {
		gomega.Expect(checker.Can(1, "approvals.submit")).To(gomega.BeTrue())
		gomega.Expect(checker.Can(1, "approvals.review")).To(gomega.BeFalse())
		gomega.Expect(checker.Can(2, "anything.here")).To(gomega.BeTrue())
	})

	ginkgo.It("should deny all when stored permissions are malformed", func() {
		gomega.Expect(checker.Can(3, "tenants.view")).To(gomega.BeFalse())
	})

	ginkgo.It("should deny all when the repository fails", func() {
		repo.err = errors.New("connection refused")
		gomega.Expect(checker.Can(1, "approvals.submit")).To(gomega.BeFalse())
		gomega.Expect(checker.GetUserPermissions(1)).To(gomega.BeEmpty())
	})

	ginkgo.It("should compose Any and All checks", func() {
		gomega.Expect(checker.CanAny(1, "billing.create", "tenants.view")).To(gomega.BeTrue())
		gomega.Expect(checker.CanAll(1, "approvals.submit", "tenants.view")).To(gomega.BeTrue())
		gomega.Expect(checker.CanAll(1, "approvals.submit", "billing.create")).To(gomega.BeFalse())
	})
})
