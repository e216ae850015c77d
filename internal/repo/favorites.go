package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

func (r *GormRepo) GetFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favs := make([]models.Favorite, 0)
	db, ok := r.conn(ctx, "get_favorites")
	if !ok {
		return favs, nil
	}
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&favs).Error; err != nil {
		return nil, fail(ctx, "get_favorites", err)
	}
	return favs, nil
}

// AddToFavorites returns the existing row when the pair is already saved.
func (r *GormRepo) AddToFavorites(ctx context.Context, userID, productID uint) (*models.Favorite, error) {
	db, ok := r.conn(ctx, "add_to_favorites")
	if !ok {
		return nil, ErrUnavailable
	}

	var fav models.Favorite
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).
		Attrs(models.Favorite{UserID: userID, ProductID: productID}).
		FirstOrCreate(&fav).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		fav = models.Favorite{}
		err = db.Where("user_id = ? AND product_id = ?", userID, productID).First(&fav).Error
	}
	if err != nil {
		return nil, fail(ctx, "add_to_favorites", err)
	}
	return &fav, nil
}

func (r *GormRepo) RemoveFromFavorites(ctx context.Context, userID, productID uint) error {
	db, ok := r.conn(ctx, "remove_from_favorites")
	if !ok {
		return ErrUnavailable
	}
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Favorite{}).Error
	if err != nil {
		return fail(ctx, "remove_from_favorites", err)
	}
	return nil
}
