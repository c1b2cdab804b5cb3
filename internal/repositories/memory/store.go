// Package memory is an in-process document store with the same uniqueness
// rules as the MongoDB indexes. It backs tests and the "memory" store driver.
package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type blob struct {
	data        []byte
	contentType string
}

// DB holds every collection behind one lock, so each repository call is atomic
type DB struct {
	mu               sync.RWMutex
	codes            map[primitive.ObjectID]models.Code
	verifiedCodes    map[primitive.ObjectID]models.VerifiedCode
	prizeDefinitions map[primitive.ObjectID]models.PrizeDefinition
	prizes           map[primitive.ObjectID]models.Prize
	claimablePrizes  map[primitive.ObjectID]models.ClaimablePrize
	adminUsers       map[primitive.ObjectID]models.AdminUser
	blobs            map[primitive.ObjectID]blob
}

// New returns an empty DB
func New() *DB {
	return &DB{
		codes:            map[primitive.ObjectID]models.Code{},
		verifiedCodes:    map[primitive.ObjectID]models.VerifiedCode{},
		prizeDefinitions: map[primitive.ObjectID]models.PrizeDefinition{},
		prizes:           map[primitive.ObjectID]models.Prize{},
		claimablePrizes:  map[primitive.ObjectID]models.ClaimablePrize{},
		adminUsers:       map[primitive.ObjectID]models.AdminUser{},
		blobs:            map[primitive.ObjectID]blob{},
	}
}

// NewStore returns a repositories.Store over a fresh DB
func NewStore() *repositories.Store {
	return New().Store()
}

// Store exposes db through the repository interfaces
func (db *DB) Store() *repositories.Store {
	return &repositories.Store{
		Codes:            &codeRepository{db},
		VerifiedCodes:    &verifiedCodeRepository{db},
		PrizeDefinitions: &prizeDefinitionRepository{db},
		Prizes:           &prizeRepository{db},
		ClaimablePrizes:  &claimablePrizeRepository{db},
		AdminUsers:       &adminUserRepository{db},
		Blobs:            &blobStore{db},
	}
}

// sortedByID orders documents the way ObjectIDs sort in Mongo
func sortedByID[T any](docs map[primitive.ObjectID]T, id func(T) primitive.ObjectID) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := id(out[i]), id(out[j])
		return bytes.Compare(a[:], b[:]) < 0
	})
	return out
}

type codeRepository struct{ db *DB }

func (r *codeRepository) Create(_ context.Context, code *models.Code) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.codes {
		if c.Code == code.Code {
			return repositories.ErrDuplicate
		}
	}
	code.ID = primitive.NewObjectID()
	code.CreatedAt = time.Now()
	code.UpdatedAt = code.CreatedAt
	r.db.codes[code.ID] = *code
	return nil
}

func (r *codeRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Code, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.codes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *codeRepository) FindByCode(_ context.Context, value string) (*models.Code, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.codes {
		if c.Code == value {
			c := c
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *codeRepository) FindAll(_ context.Context, limit int64) ([]*models.Code, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.Code{}
	for _, c := range sortedByID(r.db.codes, func(c models.Code) primitive.ObjectID { return c.ID }) {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (r *codeRepository) Invalidate(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.codes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.IsValid = false
	c.UpdatedAt = time.Now()
	r.db.codes[id] = c
	return nil
}

func (r *codeRepository) Update(_ context.Context, id primitive.ObjectID, value string, isValid *bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.codes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for otherID, other := range r.db.codes {
		if otherID != id && other.Code == value {
			return repositories.ErrDuplicate
		}
	}
	c.Code = value
	if isValid != nil {
		c.IsValid = *isValid
	}
	c.UpdatedAt = time.Now()
	r.db.codes[id] = c
	return nil
}

func (r *codeRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.codes, id)
	return nil
}

type verifiedCodeRepository struct{ db *DB }

func (r *verifiedCodeRepository) Create(_ context.Context, verified *models.VerifiedCode) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	verified.ID = primitive.NewObjectID()
	verified.CreatedAt = time.Now()
	r.db.verifiedCodes[verified.ID] = *verified
	return nil
}

func (r *verifiedCodeRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.VerifiedCode, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	v, ok := r.db.verifiedCodes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (r *verifiedCodeRepository) FindFirstByCodeID(_ context.Context, codeID primitive.ObjectID) (*models.VerifiedCode, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, v := range sortedByID(r.db.verifiedCodes, func(v models.VerifiedCode) primitive.ObjectID { return v.ID }) {
		if v.CodeID == codeID {
			v := v
			return &v, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *verifiedCodeRepository) FindAll(_ context.Context) ([]*models.VerifiedCode, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.VerifiedCode{}
	for _, v := range sortedByID(r.db.verifiedCodes, func(v models.VerifiedCode) primitive.ObjectID { return v.ID }) {
		v := v
		out = append(out, &v)
	}
	return out, nil
}

func (r *verifiedCodeRepository) DeleteByCodeID(_ context.Context, codeID primitive.ObjectID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, v := range r.db.verifiedCodes {
		if v.CodeID == codeID {
			delete(r.db.verifiedCodes, id)
			n++
		}
	}
	return n, nil
}

type prizeDefinitionRepository struct{ db *DB }

func (r *prizeDefinitionRepository) Create(_ context.Context, def *models.PrizeDefinition) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	def.ID = primitive.NewObjectID()
	def.CreatedAt = time.Now()
	def.UpdatedAt = def.CreatedAt
	r.db.prizeDefinitions[def.ID] = *def
	return nil
}

func (r *prizeDefinitionRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.PrizeDefinition, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	d, ok := r.db.prizeDefinitions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &d, nil
}

func (r *prizeDefinitionRepository) FindAll(_ context.Context) ([]*models.PrizeDefinition, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.PrizeDefinition{}
	for _, d := range sortedByID(r.db.prizeDefinitions, func(d models.PrizeDefinition) primitive.ObjectID { return d.ID }) {
		d := d
		out = append(out, &d)
	}
	return out, nil
}

func (r *prizeDefinitionRepository) Update(_ context.Context, def *models.PrizeDefinition) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	d, ok := r.db.prizeDefinitions[def.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	d.PrizeName = def.PrizeName
	d.Description = def.Description
	d.RequiresCNIC = def.RequiresCNIC
	d.UpdatedAt = time.Now()
	r.db.prizeDefinitions[def.ID] = d
	return nil
}

func (r *prizeDefinitionRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.prizeDefinitions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.db.prizeDefinitions, id)
	return nil
}

type prizeRepository struct{ db *DB }

func (r *prizeRepository) Upsert(_ context.Context, codeID, defID primitive.ObjectID) (*models.Prize, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for id, p := range r.db.prizes {
		if p.CodeID == codeID {
			p.PrizeDefinitionID = defID
			p.UpdatedAt = now
			r.db.prizes[id] = p
			return &p, true, nil
		}
	}
	p := models.Prize{
		ID:                primitive.NewObjectID(),
		CodeID:            codeID,
		PrizeDefinitionID: defID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	r.db.prizes[p.ID] = p
	return &p, false, nil
}

func (r *prizeRepository) FindByCodeID(_ context.Context, codeID primitive.ObjectID) (*models.Prize, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.prizes {
		if p.CodeID == codeID {
			p := p
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *prizeRepository) FindAll(_ context.Context) ([]*models.Prize, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.Prize{}
	for _, p := range sortedByID(r.db.prizes, func(p models.Prize) primitive.ObjectID { return p.ID }) {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *prizeRepository) ExistsByDefinitionID(_ context.Context, defID primitive.ObjectID) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.prizes {
		if p.PrizeDefinitionID == defID {
			return true, nil
		}
	}
	return false, nil
}

func (r *prizeRepository) DeleteByCodeID(_ context.Context, codeID primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, p := range r.db.prizes {
		if p.CodeID == codeID {
			delete(r.db.prizes, id)
			return true, nil
		}
	}
	return false, nil
}

type claimablePrizeRepository struct{ db *DB }

func (r *claimablePrizeRepository) Create(_ context.Context, claim *models.ClaimablePrize) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.claimablePrizes {
		if c.VerifiedCodeID == claim.VerifiedCodeID {
			return repositories.ErrDuplicate
		}
	}
	claim.ID = primitive.NewObjectID()
	claim.CreatedAt = time.Now()
	r.db.claimablePrizes[claim.ID] = *claim
	return nil
}

func (r *claimablePrizeRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.ClaimablePrize, error) {
	return r.find(func(c models.ClaimablePrize) bool { return c.ID == id })
}

func (r *claimablePrizeRepository) FindByVerifiedCodeID(_ context.Context, verifiedCodeID primitive.ObjectID) (*models.ClaimablePrize, error) {
	return r.find(func(c models.ClaimablePrize) bool { return c.VerifiedCodeID == verifiedCodeID })
}

func (r *claimablePrizeRepository) FindFirstByCodeID(_ context.Context, codeID primitive.ObjectID) (*models.ClaimablePrize, error) {
	return r.find(func(c models.ClaimablePrize) bool { return c.CodeID == codeID })
}

func (r *claimablePrizeRepository) FindByCodeID(_ context.Context, codeID primitive.ObjectID) ([]*models.ClaimablePrize, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []*models.ClaimablePrize{}
	for _, c := range sortedByID(r.db.claimablePrizes, func(c models.ClaimablePrize) primitive.ObjectID { return c.ID }) {
		if c.CodeID == codeID {
			c := c
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *claimablePrizeRepository) find(match func(models.ClaimablePrize) bool) (*models.ClaimablePrize, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range sortedByID(r.db.claimablePrizes, func(c models.ClaimablePrize) primitive.ObjectID { return c.ID }) {
		if match(c) {
			c := c
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *claimablePrizeRepository) FindAll(_ context.Context) ([]*models.ClaimablePrize, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	sorted := sortedByID(r.db.claimablePrizes, func(c models.ClaimablePrize) primitive.ObjectID { return c.ID })
	out := make([]*models.ClaimablePrize, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		c := sorted[i]
		out = append(out, &c)
	}
	return out, nil
}

func (r *claimablePrizeRepository) MarkClaimed(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.claimablePrizes[id]
	if !ok || c.Status != models.ClaimStatusUnclaimed {
		return false, nil
	}
	c.Status = models.ClaimStatusClaimed
	c.ClaimedAt = &at
	r.db.claimablePrizes[id] = c
	return true, nil
}

func (r *claimablePrizeRepository) DeleteByCodeID(_ context.Context, codeID primitive.ObjectID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, c := range r.db.claimablePrizes {
		if c.CodeID == codeID {
			delete(r.db.claimablePrizes, id)
			n++
		}
	}
	return n, nil
}

type adminUserRepository struct{ db *DB }

func (r *adminUserRepository) Create(_ context.Context, adminUser *models.AdminUser) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.adminUsers {
		if u.Username == adminUser.Username {
			return repositories.ErrDuplicate
		}
	}
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = adminUser.CreatedAt
	r.db.adminUsers[adminUser.ID] = *adminUser
	return nil
}

func (r *adminUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.adminUsers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *adminUserRepository) FindByUsername(_ context.Context, username string) (*models.AdminUser, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.adminUsers {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *adminUserRepository) FindFirst(_ context.Context) (*models.AdminUser, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	users := sortedByID(r.db.adminUsers, func(u models.AdminUser) primitive.ObjectID { return u.ID })
	if len(users) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &users[0], nil
}

func (r *adminUserRepository) Update(_ context.Context, adminUser *models.AdminUser) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.adminUsers[adminUser.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	for otherID, other := range r.db.adminUsers {
		if otherID != adminUser.ID && other.Username == adminUser.Username {
			return repositories.ErrDuplicate
		}
	}
	u.Username = adminUser.Username
	u.Password = adminUser.Password
	u.UpdatedAt = time.Now()
	r.db.adminUsers[adminUser.ID] = u
	return nil
}

type blobStore struct{ db *DB }

func (s *blobStore) Put(_ context.Context, _ string, contentType string, r io.Reader) (primitive.ObjectID, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return primitive.NilObjectID, err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id := primitive.NewObjectID()
	s.db.blobs[id] = blob{data: data, contentType: contentType}
	return id, nil
}

func (s *blobStore) Open(_ context.Context, id primitive.ObjectID) (*repositories.Blob, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	b, ok := s.db.blobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &repositories.Blob{
		ReadCloser:  io.NopCloser(bytes.NewReader(b.data)),
		ContentType: b.contentType,
		Length:      int64(len(b.data)),
	}, nil
}

func (s *blobStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.blobs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.db.blobs, id)
	return nil
}
