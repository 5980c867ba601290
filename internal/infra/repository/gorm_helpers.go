package repository

import (
	"errors"

	"gorm.io/gorm"
)

// first runs query.First(dest) and turns a missing row into found=false.
func first(query *gorm.DB, dest any) (bool, error) {
	err := query.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
