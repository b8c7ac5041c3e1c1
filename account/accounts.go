package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"shiftgate/authority"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/idgen"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var SystemAdminPermission = struct{ ID string }{ID: "system:admin"}

var (
	workerIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryWorkersFunc = QueryWorkers
	CreateWorkerFunc = CreateWorker
	LoginFunc        = Login
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

func QueryWorkers(s *session.Session) (*[]WorkerInfo, error) {
	var workers []WorkerInfo
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&Worker{}).Scan(&workers).Error; err != nil {
		return nil, err
	}
	return &workers, nil
}

func CreateWorker(c *WorkerCreation, s *session.Session) (*WorkerInfo, error) {
	if !s.Perms.HasRole(SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}

	worker := Worker{ID: idgen.NextID(workerIdWorker), Name: c.Name, Secret: HashSha256(c.Secret),
		Nickname: c.Nickname, Email: c.Email, Role: c.Role}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&worker).Error; err != nil {
		return nil, err
	}
	return &WorkerInfo{ID: worker.ID, Name: worker.Name, Nickname: worker.Nickname, Email: worker.Email,
		Role: worker.Role, PunctualityRating: worker.PunctualityRating}, nil
}

func FindWorker(id types.ID, db *gorm.DB) (*Worker, error) {
	var worker Worker
	if err := db.Where(&Worker{ID: id}).First(&worker).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &worker, nil
}

// Login verifies the credential and assembles a session whose perms carry the
// worker role plus a "<role>_<projectId>" entry per project membership.
func Login(req *session.LoginRequest) (*session.Session, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	var worker Worker
	if err := db.Where(&Worker{Name: req.Name, Secret: HashSha256(req.Password)}).First(&worker).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, bizerror.ErrUnauthenticated
		}
		return nil, err
	}

	var memberships []domain.ProjectMember
	if err := db.Where(&domain.ProjectMember{MemberId: worker.ID}).Find(&memberships).Error; err != nil {
		return nil, err
	}

	perms := authority.Permissions{}
	projectRoles := authority.ProjectRoles{}
	if worker.Role == RoleAdmin {
		perms = append(perms, SystemAdminPermission.ID)
	}
	for _, m := range memberships {
		perms = append(perms, m.Role+"_"+m.ProjectId.String())
		projectRoles = append(projectRoles, domain.ProjectRole{ProjectID: m.ProjectId, Role: m.Role})
	}

	s := &session.Session{
		Token:        uuid.New().String(),
		Identity:     session.Identity{ID: worker.ID, Name: worker.Name, Nickname: worker.Nickname},
		Perms:        perms,
		ProjectRoles: projectRoles,
		SigningTime:  time.Now(),
	}
	session.TokenCache.Set(s.Token, s, session.TokenExpiration)
	return s, nil
}
