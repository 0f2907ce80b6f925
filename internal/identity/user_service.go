package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/pkg/types"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// AccessRequiredClaim 用户申请访问的声明类型
const AccessRequiredClaim = "access_required"

var validate = validator.New()

// ValidEmail 校验邮箱格式
func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// UserDetails 注册或更新用户时提交的资料
type UserDetails struct {
	Email              string
	GivenName          string
	FamilyName         string
	Title              *string
	Telephone          *string
	Organisation       *string
	Country            *string
	JobTitle           *string
	Status             string
	IdentityProviderID *string
	LastUpdated        *time.Time
	CurrentLogin       *time.Time
}

// UserFilter 用户列表过滤条件
type UserFilter struct {
	SearchQuery   string
	Country       []string
	Status        *bool
	FromDate      *time.Time
	ToDate        *time.Time
	SortField     string
	SortDirection string
}

// Claim 声明
type Claim struct {
	Type  string `json:"key"`
	Value string `json:"value"`
}

// UserService 用户相关操作
//
// 所有写操作都经过 GORM，审计由注册在连接上的插件完成，操作者从 ctx 中读取。
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register 注册用户
func (s *UserService) Register(ctx context.Context, details UserDetails) (*User, error) {
	email := strings.TrimSpace(details.Email)
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	db := s.db.WithContext(ctx)
	if taken, err := emailTaken(db, email, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateEmail
	}

	u := &User{UserName: email}
	details.Email = email
	applyDetails(u, details)
	if u.LastUpdated == nil {
		now := time.Now().UTC()
		u.LastUpdated = &now
	}

	if err := db.Create(u).Error; err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return u, nil
}

// Update 按邮箱更新用户资料
//
// 提交了 CurrentLogin 时，原 CurrentLogin 移到 LastLogin。
func (s *UserService) Update(ctx context.Context, email string, details UserDetails) (*User, error) {
	newEmail := strings.TrimSpace(details.Email)
	if !ValidEmail(newEmail) {
		return nil, ErrInvalidEmail
	}

	var updated *User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := findByEmail(tx, email)
		if err != nil {
			return err
		}
		if !strings.EqualFold(u.Email, newEmail) {
			taken, err := emailTaken(tx, newEmail, u.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateEmail
			}
		}

		if details.CurrentLogin != nil {
			u.LastLogin = u.CurrentLogin
			u.CurrentLogin = details.CurrentLogin
		}
		details.Email = newEmail
		applyDetails(u, details)
		u.UserName = newEmail

		if err := tx.Save(u).Error; err != nil {
			return fmt.Errorf("更新用户失败: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Find 按 ID 或邮箱查找用户，邮箱优先
func (s *UserService) Find(ctx context.Context, id, email string) (*User, error) {
	db := s.db.WithContext(ctx)
	switch {
	case email != "":
		return findByEmail(db, email)
	case id != "":
		return findByID(db, id)
	default:
		return nil, ErrMissingParameters
	}
}

// Delete 软删除用户，不产生审计记录
func (s *UserService) Delete(ctx context.Context, id, email string) error {
	u, err := s.Find(ctx, id, email)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(u).Error; err != nil {
		return fmt.Errorf("删除用户失败: %w", err)
	}
	return nil
}

// List 按条件分页列出用户
func (s *UserService) List(ctx context.Context, filter UserFilter, page types.PageRequest) ([]User, int64, error) {
	query := s.db.WithContext(ctx).Model(&User{})

	// 任一关键词命中即可
	if words := strings.Fields(filter.SearchQuery); len(words) > 0 {
		conds := make([]string, 0, len(words))
		args := make([]any, 0, len(words)*3)
		for _, w := range words {
			like := "%" + strings.ToLower(w) + "%"
			conds = append(conds, "(LOWER(given_name) LIKE ? OR LOWER(family_name) LIKE ? OR LOWER(email) LIKE ?)")
			args = append(args, like, like, like)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if filter.Status != nil {
		status := "disabled"
		if *filter.Status {
			status = "active"
		}
		query = query.Where("LOWER(status) = ?", status)
	}
	if filter.FromDate != nil {
		query = query.Where("last_login >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("last_login <= ?", *filter.ToDate)
	}

	var users []User
	if err := applyOrdering(query, filter.SortField, filter.SortDirection).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("查询用户失败: %w", err)
	}

	// 国家为逗号分隔的列表，在内存中求交集
	if countries := normalizeList(filter.Country); len(countries) > 0 {
		filtered := users[:0]
		for _, u := range users {
			if u.Country != nil && intersects(normalizeList(strings.Split(*u.Country, ",")), countries) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	total := int64(len(users))
	return paginate(users, page), total, nil
}

// Search 按关键词搜索用户，可排除指定 ID
func (s *UserService) Search(ctx context.Context, query string, ignoreIDs []string, page types.PageRequest) ([]User, int64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, ErrMissingParameters
	}
	like := "%" + query + "%"
	base := s.db.WithContext(ctx).Model(&User{}).
		Where("(given_name LIKE ? OR family_name LIKE ? OR email LIKE ?)", like, like, like)
	if len(ignoreIDs) > 0 {
		base = base.Where("id NOT IN ?", ignoreIDs)
	}
	return pageQuery(base, page)
}

// FindByIDs 查询指定 ID 的用户，searchQuery 中的每个词都需匹配
func (s *UserService) FindByIDs(ctx context.Context, ids []string, searchQuery string, page types.PageRequest) ([]User, int64, error) {
	if ids == nil {
		return nil, 0, ErrMissingParameters
	}
	if len(ids) == 0 {
		return []User{}, 0, nil
	}
	base := s.db.WithContext(ctx).Model(&User{}).Where("id IN ?", ids)
	for _, w := range strings.Fields(searchQuery) {
		like := "%" + w + "%"
		base = base.Where("(given_name LIKE ? OR family_name LIKE ? OR email LIKE ?)", like, like, like)
	}
	return pageQuery(base, page)
}

// ListInRole 列出拥有指定角色的用户
func (s *UserService) ListInRole(ctx context.Context, roleName string) ([]User, error) {
	db := s.db.WithContext(ctx)
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return nil, err
	}
	var users []User
	err = db.Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", role.ID).
		Order("users.given_name").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("查询角色用户失败: %w", err)
	}
	return users, nil
}

// Count 统计用户总数
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("统计用户失败: %w", err)
	}
	return n, nil
}

// RolesOf 返回用户拥有的角色名，按名称排序
func (s *UserService) RolesOf(ctx context.Context, userID string) ([]string, error) {
	return roleNames(s.db.WithContext(ctx), userID)
}

// AddToRoles 为用户添加角色，已有的角色忽略
func (s *UserService) AddToRoles(ctx context.Context, email string, roles []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := findByEmail(tx, email)
		if err != nil {
			return err
		}
		current, err := roleIDSet(tx, u.ID)
		if err != nil {
			return err
		}
		for _, name := range cleanNames(roles) {
			role, err := findRoleByName(tx, name)
			if err != nil {
				return fmt.Errorf("%w: %s", err, name)
			}
			if current[role.ID] {
				continue
			}
			if err := tx.Create(&UserRole{UserID: u.ID, RoleID: role.ID}).Error; err != nil {
				return fmt.Errorf("添加角色失败: %w", err)
			}
			current[role.ID] = true
		}
		return nil
	})
}

// RemoveFromRoles 移除用户的角色，未拥有的角色忽略
func (s *UserService) RemoveFromRoles(ctx context.Context, email string, roles []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := findByEmail(tx, email)
		if err != nil {
			return err
		}
		current, err := roleIDSet(tx, u.ID)
		if err != nil {
			return err
		}
		for _, name := range cleanNames(roles) {
			role, err := findRoleByName(tx, name)
			if errors.Is(err, ErrRoleNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if !current[role.ID] {
				continue
			}
			if err := tx.Delete(&UserRole{UserID: u.ID, RoleID: role.ID}).Error; err != nil {
				return fmt.Errorf("移除角色失败: %w", err)
			}
			delete(current, role.ID)
		}
		return nil
	})
}

// Claims 返回用户声明
func (s *UserService) Claims(ctx context.Context, userID string) ([]Claim, error) {
	var rows []UserClaim
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询用户声明失败: %w", err)
	}
	claims := make([]Claim, 0, len(rows))
	for _, r := range rows {
		claims = append(claims, Claim{Type: r.ClaimType, Value: r.ClaimValue})
	}
	return claims, nil
}

// AddClaims 为用户添加声明
func (s *UserService) AddClaims(ctx context.Context, email string, claims []Claim) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := findByEmail(tx, email)
		if err != nil {
			return err
		}
		if len(claims) == 0 {
			return nil
		}
		rows := make([]UserClaim, 0, len(claims))
		for _, c := range claims {
			rows = append(rows, UserClaim{UserID: u.ID, ClaimType: c.Type, ClaimValue: c.Value})
		}
		return tx.Create(&rows).Error
	})
}

// RemoveClaims 移除用户声明，不存在的声明忽略
func (s *UserService) RemoveClaims(ctx context.Context, email string, claims []Claim) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := findByEmail(tx, email)
		if err != nil {
			return err
		}
		for _, c := range claims {
			err := tx.Where("user_id = ? AND claim_type = ? AND claim_value = ?", u.ID, c.Type, c.Value).
				Delete(&UserClaim{}).Error
			if err != nil {
				return fmt.Errorf("移除用户声明失败: %w", err)
			}
		}
		return nil
	})
}

func applyDetails(u *User, d UserDetails) {
	u.Email = d.Email
	u.GivenName = d.GivenName
	u.FamilyName = d.FamilyName
	u.Title = d.Title
	u.Telephone = d.Telephone
	u.Organisation = d.Organisation
	u.Country = d.Country
	u.JobTitle = d.JobTitle
	u.Status = d.Status
	u.IdentityProviderID = d.IdentityProviderID
	if d.LastUpdated != nil {
		u.LastUpdated = d.LastUpdated
	}
}

func findByEmail(db *gorm.DB, email string) (*User, error) {
	var u User
	err := db.Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

func findByID(db *gorm.DB, id string) (*User, error) {
	var u User
	err := db.Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

func emailTaken(db *gorm.DB, email, exceptID string) (bool, error) {
	query := db.Model(&User{}).Where("LOWER(email) = LOWER(?)", email)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return false, fmt.Errorf("检查邮箱失败: %w", err)
	}
	return n > 0, nil
}

func roleIDSet(db *gorm.DB, userID string) (map[string]bool, error) {
	var ids []string
	if err := db.Model(&UserRole{}).Where("user_id = ?", userID).Pluck("role_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("查询用户角色失败: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func roleNames(db *gorm.DB, userID string) ([]string, error) {
	var names []string
	err := db.Model(&Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户角色失败: %w", err)
	}
	return names, nil
}

var sortColumns = map[string]string{
	"givenname":    "given_name",
	"familyname":   "family_name",
	"email":        "email",
	"status":       "status",
	"currentlogin": "current_login",
}

// applyOrdering 主排序字段之后按 current_login 倒序、status 正序
func applyOrdering(query *gorm.DB, field, direction string) *gorm.DB {
	col, ok := sortColumns[strings.ToLower(field)]
	if !ok {
		col, direction = "given_name", "asc"
	}
	dir := "ASC"
	if strings.EqualFold(direction, "desc") {
		dir = "DESC"
	}
	query = query.Order(col + " " + dir)
	if col != "current_login" {
		query = query.Order("current_login DESC")
	}
	if col != "status" {
		query = query.Order("status ASC")
	}
	return query
}

func pageQuery(base *gorm.DB, page types.PageRequest) ([]User, int64, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计用户失败: %w", err)
	}
	var users []User
	err := base.Session(&gorm.Session{}).
		Order("given_name").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询用户失败: %w", err)
	}
	return users, total, nil
}

func paginate(users []User, page types.PageRequest) []User {
	start := page.Offset()
	if start >= len(users) {
		return []User{}
	}
	end := start + page.PageSize
	if page.PageSize <= 0 || end > len(users) {
		end = len(users)
	}
	return users[start:end]
}

func normalizeList(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

func cleanNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[NormalizeName(n)]; ok {
			continue
		}
		seen[NormalizeName(n)] = struct{}{}
		out = append(out, n)
	}
	return out
}

// SplitRoles 拆分逗号分隔的角色列表
func SplitRoles(roles string) []string {
	return cleanNames(strings.Split(roles, ","))
}
