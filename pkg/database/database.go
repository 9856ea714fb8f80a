package database

import (
	"fmt"
	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.Student{},
		&model.Admin{},
		&model.DsaSheet{},
		&model.StudentSheetProgress{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedSheets(db)

	return db, nil
}

// seedSheets 首次启动时填充默认刷题清单
func seedSheets(db *gorm.DB) {
	var count int64
	db.Model(&model.DsaSheet{}).Count(&count)
	if count > 0 {
		return
	}

	defaultSheets := []model.DsaSheet{
		{
			SheetName: "Striver A2Z",
			Topic:     "Arrays",
			Problems: []model.SheetProblem{
				{ProblemID: "str-arr-1", Title: "Largest Element in an Array", Difficulty: "Easy", Link: "https://leetcode.com/problems/largest-number-at-least-twice-of-others/"},
				{ProblemID: "str-arr-2", Title: "Second Largest Element without sorting", Difficulty: "Medium", Link: "https://www.geeksforgeeks.org/problems/second-largest3735/1"},
				{ProblemID: "str-arr-3", Title: "Check if the array is sorted", Difficulty: "Easy", Link: "https://leetcode.com/problems/check-if-array-is-sorted-and-rotated/"},
				{ProblemID: "str-arr-4", Title: "Remove duplicates from Sorted array", Difficulty: "Easy", Link: "https://leetcode.com/problems/remove-duplicates-from-sorted-array/"},
			},
		},
		{
			SheetName: "Striver A2Z",
			Topic:     "Binary Search",
			Problems: []model.SheetProblem{
				{ProblemID: "str-bs-1", Title: "Binary Search to find X in sorted array", Difficulty: "Easy", Link: "https://leetcode.com/problems/binary-search/"},
				{ProblemID: "str-bs-2", Title: "Lower Bound Implementation", Difficulty: "Easy", Link: "https://www.geeksforgeeks.org/problems/floor-in-a-sorted-array-1587115620/1"},
			},
		},
		{
			SheetName: "Blind 75",
			Topic:     "Arrays",
			Problems: []model.SheetProblem{
				{ProblemID: "b75-arr-1", Title: "Two Sum", Difficulty: "Easy", Link: "https://leetcode.com/problems/two-sum/"},
				{ProblemID: "b75-arr-2", Title: "Best Time to Buy and Sell Stock", Difficulty: "Easy", Link: "https://leetcode.com/problems/best-time-to-buy-and-sell-stock/"},
				{ProblemID: "b75-arr-3", Title: "Contains Duplicate", Difficulty: "Easy", Link: "https://leetcode.com/problems/contains-duplicate/"},
				{ProblemID: "b75-arr-4", Title: "Product of Array Except Self", Difficulty: "Medium", Link: "https://leetcode.com/problems/product-of-array-except-self/"},
			},
		},
		{
			SheetName: "Blind 75",
			Topic:     "DP",
			Problems: []model.SheetProblem{
				{ProblemID: "b75-dp-1", Title: "Climbing Stairs", Difficulty: "Easy", Link: "https://leetcode.com/problems/climbing-stairs/"},
				{ProblemID: "b75-dp-2", Title: "Coin Change", Difficulty: "Medium", Link: "https://leetcode.com/problems/coin-change/"},
			},
		},
	}

	for _, sheet := range defaultSheets {
		db.Create(&sheet)
	}
}
