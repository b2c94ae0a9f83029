package persistent

import (
	"context"

	"meow-site/pkg/models"
	"meow-site/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Account, int64, error)
	Count(ctx context.Context) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts the account and its moderation state in one transaction.
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountModel := ToAccountModel(account)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, accountModel); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(accountModel).Error; err != nil {
			return err
		}
		return tx.Create(ToModerationModel(entity.NewModerationState(accountModel.ID))).Error
	})
	if err != nil {
		return err
	}

	account.ID = accountModel.ID
	account.CreatedAt = accountModel.CreatedAt
	account.UpdatedAt = accountModel.UpdatedAt
	account.Moderation = entity.NewModerationState(accountModel.ID)
	return nil
}

func checkUnique(tx *gorm.DB, m *models.Account) error {
	taken := func(column string, value interface{}) (bool, error) {
		var count int64
		err := tx.Model(&models.Account{}).Where(column+" = ? AND id <> ?", value, m.ID).Count(&count).Error
		return count > 0, err
	}

	if ok, err := taken("username", m.Username); err != nil {
		return err
	} else if ok {
		return entity.ErrUsernameTaken
	}
	if ok, err := taken("email", m.Email); err != nil {
		return err
	} else if ok {
		return entity.ErrEmailTaken
	}
	if m.Phone != nil {
		if ok, err := taken("phone", *m.Phone); err != nil {
			return err
		} else if ok {
			return entity.ErrPhoneTaken
		}
	}
	return nil
}

func (r *accountRepository) getBy(ctx context.Context, column, value string) (*entity.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Preload("Moderation").Where(column+" = ?", value).First(&account).Error
	if err != nil {
		return nil, notFound(err)
	}
	return ToAccountEntity(&account), nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return r.getBy(ctx, "username", username)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getBy(ctx, "email", email)
}

func (r *accountRepository) GetByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	return r.getBy(ctx, "phone", phone)
}

// Update writes the editable profile columns.
func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountModel := ToAccountModel(account)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, accountModel); err != nil {
			return err
		}
		return tx.Model(&models.Account{ID: accountModel.ID}).
			Select("email", "phone", "display_name", "password", "is_active").
			Updates(accountModel).Error
	})
}

// Delete removes the account with everything it owns. Counters on other
// authors' posts and comments are decremented for the account's reactions.
func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []string
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		var commentIDs []string
		if err := tx.Model(&models.Comment{}).
			Where("author_id = ? OR post_id IN ?", id, nonEmpty(postIDs)).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if err := releaseReactions(tx, id); err != nil {
			return err
		}

		steps := []struct {
			model interface{}
			where string
			args  []interface{}
		}{
			{&models.CommentLike{}, "account_id = ? OR comment_id IN ?", []interface{}{id, nonEmpty(commentIDs)}},
			{&models.Comment{}, "id IN ?", []interface{}{nonEmpty(commentIDs)}},
			{&models.PostLike{}, "account_id = ? OR post_id IN ?", []interface{}{id, nonEmpty(postIDs)}},
			{&models.PostFavorite{}, "account_id = ? OR post_id IN ?", []interface{}{id, nonEmpty(postIDs)}},
			{&models.Post{}, "author_id = ?", []interface{}{id}},
			{&models.Category{}, "owner_id = ?", []interface{}{id}},
			{&models.Follow{}, "follower_id = ? OR following_id = ?", []interface{}{id, id}},
			{&models.ModerationState{}, "account_id = ?", []interface{}{id}},
		}
		for _, step := range steps {
			if err := tx.Where(step.where, step.args...).Delete(step.model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&models.Account{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

// releaseReactions decrements the counters of content the account reacted to.
func releaseReactions(tx *gorm.DB, accountID string) error {
	decrements := []struct {
		model  interface{}
		column string
		ids    *gorm.DB
	}{
		{&models.Post{}, "likes_count", tx.Model(&models.PostLike{}).Select("post_id").Where("account_id = ?", accountID)},
		{&models.Post{}, "favorites_count", tx.Model(&models.PostFavorite{}).Select("post_id").Where("account_id = ?", accountID)},
		{&models.Comment{}, "likes_count", tx.Model(&models.CommentLike{}).Select("comment_id").Where("account_id = ?", accountID)},
	}
	for _, d := range decrements {
		err := tx.Model(d.model).
			Where("id IN (?) AND "+d.column+" > 0", d.ids).
			UpdateColumn(d.column, gorm.Expr(d.column+" - 1")).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// nonEmpty keeps IN clauses valid for empty id lists.
func nonEmpty(ids []string) []string {
	if len(ids) == 0 {
		return []string{""}
	}
	return ids
}

func (r *accountRepository) List(ctx context.Context, limit, offset int) ([]*entity.Account, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accountModels []models.Account
	err := r.db.WithContext(ctx).
		Preload("Moderation").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&accountModels).Error
	if err != nil {
		return nil, 0, err
	}

	accounts := make([]*entity.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = ToAccountEntity(&accountModels[i])
	}
	return accounts, total, nil
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, err
}
