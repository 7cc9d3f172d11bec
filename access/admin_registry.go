package access

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/ligarx-org/audiov1/model"
)

// AdminRegistry keeps the privileged set: one immutable mega admin from the
// config plus the admins table, mirrored in memory and refreshed on every
// mutation.
type AdminRegistry struct {
	adminService model.AdminService
	megaAdminID  int64

	mutex    sync.RWMutex
	adminIDs []int64
}

func NewAdminRegistry(adminService model.AdminService, megaAdminID int64) (*AdminRegistry, error) {
	adminIDs, err := adminService.GetAllIDs()
	if err != nil {
		return nil, err
	}

	return &AdminRegistry{
		adminService: adminService,
		megaAdminID:  megaAdminID,
		adminIDs:     adminIDs,
	}, nil
}

func (r *AdminRegistry) IsAdmin(userID int64) bool {
	if userID == r.megaAdminID {
		return true
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return slices.Contains(r.adminIDs, userID)
}

func (r *AdminRegistry) IsMegaAdmin(userID int64) bool {
	return userID == r.megaAdminID
}

// Add grants admin to target. Granting to an existing admin succeeds as a
// no-op; granting to the mega admin changes nothing.
func (r *AdminRegistry) Add(actorID, targetID int64) error {
	if !r.IsAdmin(actorID) {
		return model.ErrNotAnAdmin
	}

	if targetID == r.megaAdminID {
		return nil
	}

	if err := r.adminService.Add(targetID, actorID); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if !slices.Contains(r.adminIDs, targetID) {
		r.adminIDs = append(r.adminIDs, targetID)
	}
	return nil
}

// Remove revokes admin from target. Removing a non-admin succeeds as a
// no-op; the mega admin can never be removed.
func (r *AdminRegistry) Remove(actorID, targetID int64) error {
	if !r.IsAdmin(actorID) {
		return model.ErrNotAnAdmin
	}

	if targetID == r.megaAdminID {
		return model.ErrProtected
	}

	if err := r.adminService.Remove(targetID); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	index := slices.Index(r.adminIDs, targetID)
	if index >= 0 {
		r.adminIDs = slices.Delete(r.adminIDs, index, index+1)
	}
	return nil
}

func (r *AdminRegistry) List() ([]model.Admin, error) {
	return r.adminService.GetAll()
}
