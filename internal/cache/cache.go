package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/models"
)

// TaskRecord is a locally cached task snapshot. The full task is kept as a
// JSON payload; status and category are lifted into columns for filtering.
type TaskRecord struct {
	ID       uint64 `gorm:"primaryKey"`
	Status   string `gorm:"index"`
	Category string `gorm:"index"`
	Payload  []byte
	SavedAt  time.Time
}

// UserRecord is a locally cached user snapshot.
type UserRecord struct {
	ID       uint64 `gorm:"primaryKey"`
	IsActive bool   `gorm:"index"`
	Payload  []byte
	SavedAt  time.Time
}

// Store keeps the last known server state in a local database so the UI has
// something to show while offline or before the first refresh completes.
type Store struct {
	db *gorm.DB
}

// Open connects to the cache database selected by the configuration and runs
// migrations. Supported drivers are sqlite and postgres.
func Open(cfg *config.Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.CacheDriver {
	case "postgres":
		dialector = postgres.Open(cfg.CacheDSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.CacheDSN)
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.CacheDriver)
	}

	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	lgr.Printf("[DEBUG] cache store opened, driver=%s", cfg.CacheDriver)
	return store, nil
}

// NewWithDB wraps an existing connection, used by tests.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&TaskRecord{}, &UserRecord{}); err != nil {
		return fmt.Errorf("failed to run cache migrations: %w", err)
	}
	return nil
}

// SaveTasks replaces the whole task snapshot with the given set.
func (s *Store) SaveTasks(tasks []models.Task) error {
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&TaskRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear task snapshot: %w", err)
		}
		for _, task := range tasks {
			record, err := taskRecord(task, now)
			if err != nil {
				return err
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to cache task %d: %w", task.ID, err)
			}
		}
		return nil
	})
}

// SaveTask upserts a single task into the snapshot.
func (s *Store) SaveTask(task models.Task) error {
	record, err := taskRecord(task, time.Now())
	if err != nil {
		return err
	}
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("failed to cache task %d: %w", task.ID, err)
	}
	return nil
}

// Tasks returns the cached task snapshot ordered by id.
func (s *Store) Tasks() ([]models.Task, error) {
	var records []TaskRecord
	if err := s.db.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read task snapshot: %w", err)
	}

	tasks := make([]models.Task, 0, len(records))
	for _, record := range records {
		var task models.Task
		if err := json.Unmarshal(record.Payload, &task); err != nil {
			lgr.Printf("[WARN] dropping unreadable cached task %d: %v", record.ID, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Task returns one cached task. Returns gorm.ErrRecordNotFound when the id
// is not in the snapshot.
func (s *Store) Task(id uint64) (models.Task, error) {
	var record TaskRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return models.Task{}, err
	}
	var task models.Task
	if err := json.Unmarshal(record.Payload, &task); err != nil {
		return models.Task{}, fmt.Errorf("failed to decode cached task %d: %w", id, err)
	}
	return task, nil
}

// DeleteTask removes a task from the snapshot.
func (s *Store) DeleteTask(id uint64) error {
	if err := s.db.Delete(&TaskRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to evict cached task %d: %w", id, err)
	}
	return nil
}

// ReplaceTaskID rewrites a cached task under a new id. Used when a task
// created under a client-side placeholder id comes back with its real
// server id.
func (s *Store) ReplaceTaskID(oldID, newID uint64) error {
	task, err := s.Task(oldID)
	if err != nil {
		return err
	}
	task.ID = newID

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&TaskRecord{}, "id = ?", oldID).Error; err != nil {
			return fmt.Errorf("failed to drop placeholder task %d: %w", oldID, err)
		}
		record, err := taskRecord(task, time.Now())
		if err != nil {
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to cache task %d: %w", newID, err)
		}
		return nil
	})
}

// SaveUsers replaces the whole user snapshot with the given set.
func (s *Store) SaveUsers(users []models.User) error {
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&UserRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear user snapshot: %w", err)
		}
		for _, user := range users {
			record, err := userRecord(user, now)
			if err != nil {
				return err
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to cache user %d: %w", user.ID, err)
			}
		}
		return nil
	})
}

// Users returns the cached user snapshot ordered by id. With activeOnly set
// only active accounts are returned.
func (s *Store) Users(activeOnly bool) ([]models.User, error) {
	query := s.db.Order("id")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var records []UserRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read user snapshot: %w", err)
	}

	users := make([]models.User, 0, len(records))
	for _, record := range records {
		var user models.User
		if err := json.Unmarshal(record.Payload, &user); err != nil {
			lgr.Printf("[WARN] dropping unreadable cached user %d: %v", record.ID, err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// Clear drops both snapshots, used on logout.
func (s *Store) Clear() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&TaskRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear task snapshot: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&UserRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear user snapshot: %w", err)
		}
		return nil
	})
}

func taskRecord(task models.Task, savedAt time.Time) (TaskRecord, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return TaskRecord{}, fmt.Errorf("failed to encode task %d: %w", task.ID, err)
	}
	return TaskRecord{
		ID:       task.ID,
		Status:   string(task.Status),
		Category: task.Category,
		Payload:  payload,
		SavedAt:  savedAt,
	}, nil
}

func userRecord(user models.User, savedAt time.Time) (UserRecord, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return UserRecord{}, fmt.Errorf("failed to encode user %d: %w", user.ID, err)
	}
	return UserRecord{
		ID:       user.ID,
		IsActive: user.IsActive,
		Payload:  payload,
		SavedAt:  savedAt,
	}, nil
}
