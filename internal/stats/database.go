// Package stats 记录每次翻译运行的历史，供 pmt stats 查看
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/datadir"
	"go.uber.org/zap"
)

const (
	HistoryVersion   = "1.0.0"
	MaxRecentRecords = 100
)

// DefaultPath 默认的历史文件位置：用户数据目录旁的 stats.json
func DefaultPath() string {
	dir := datadir.UserDataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(dir), "stats.json")
}

// Database 运行历史
type Database struct {
	filePath string
	data     *History
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewDatabase 打开历史文件，文件不存在时从空历史开始
func NewDatabase(filePath string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &Database{
		filePath: filePath,
		logger:   logger,
	}
	if err := db.load(); err != nil {
		return nil, fmt.Errorf("failed to load stats history: %w", err)
	}
	return db, nil
}

// Path 历史文件路径
func (db *Database) Path() string {
	return db.filePath
}

func newHistory() *History {
	now := time.Now()
	return &History{
		Version:       HistoryVersion,
		CreatedAt:     now,
		LastUpdated:   now,
		LanguagePairs: make(map[string]*LanguagePairStats),
		RecentRuns:    make([]*RunRecord, 0),
	}
}

// load 加载历史数据
func (db *Database) load() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	data, err := os.ReadFile(db.filePath)
	if os.IsNotExist(err) {
		db.data = newHistory()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var history History
	if err := json.Unmarshal(data, &history); err != nil {
		return fmt.Errorf("failed to parse stats file: %w", err)
	}
	if history.LanguagePairs == nil {
		history.LanguagePairs = make(map[string]*LanguagePairStats)
	}
	if history.RecentRuns == nil {
		history.RecentRuns = make([]*RunRecord, 0)
	}

	db.data = &history
	db.logger.Debug("loaded stats history",
		zap.String("path", db.filePath),
		zap.String("version", history.Version),
		zap.Int64("total_runs", history.TotalRuns))
	return nil
}

// Save 保存历史数据
func (db *Database) Save() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.saveUnsafe()
}

// saveUnsafe 保存历史数据（需要已持有锁）
func (db *Database) saveUnsafe() error {
	db.data.LastUpdated = time.Now()

	data, err := json.MarshalIndent(db.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(db.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create stats directory: %w", err)
	}

	// 原子写入
	tempFile := db.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp stats file: %w", err)
	}
	if err := os.Rename(tempFile, db.filePath); err != nil {
		return fmt.Errorf("failed to rename stats file: %w", err)
	}
	return nil
}

// AddRun 记录一次运行并保存
func (db *Database) AddRun(record *RunRecord) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.data.TotalRuns++
	db.data.TotalFiles += int64(record.Files)
	db.data.TotalFailed += int64(record.Failed)
	db.data.TotalProblems += int64(record.Problems)
	db.data.TotalChunks += int64(record.Chunks)
	db.data.TotalDuration += record.Duration

	for _, p := range record.pairs {
		key := fmt.Sprintf("%s-%s", record.SourceLang, p.lang)
		pair, exists := db.data.LanguagePairs[key]
		if !exists {
			pair = &LanguagePairStats{
				SourceLang: record.SourceLang,
				TargetLang: p.lang,
			}
			db.data.LanguagePairs[key] = pair
		}
		pair.FileCount++
		pair.ChunkCount += int64(p.chunks)
		pair.ProblemCount += int64(p.problems)
		if p.failed {
			pair.FailedCount++
		}
		pair.LastUsed = record.Timestamp
	}

	db.data.RecentRuns = append(db.data.RecentRuns, record)
	if len(db.data.RecentRuns) > MaxRecentRecords {
		sort.Slice(db.data.RecentRuns, func(i, j int) bool {
			return db.data.RecentRuns[i].Timestamp.After(db.data.RecentRuns[j].Timestamp)
		})
		db.data.RecentRuns = db.data.RecentRuns[:MaxRecentRecords]
	}

	return db.saveUnsafe()
}

// Reset 清空历史并删除历史文件
func (db *Database) Reset() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.data = newHistory()
	if err := os.Remove(db.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stats file: %w", err)
	}
	return nil
}

// GetHistory 获取历史数据（只读副本）
func (db *Database) GetHistory() *History {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	data, _ := json.Marshal(db.data)
	var copy History
	_ = json.Unmarshal(data, &copy)
	return &copy
}

// GetRecentRuns 获取最近的运行记录，最新的在前
func (db *Database) GetRecentRuns(limit int) []*RunRecord {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if limit <= 0 || limit > len(db.data.RecentRuns) {
		limit = len(db.data.RecentRuns)
	}

	sorted := make([]*RunRecord, len(db.data.RecentRuns))
	copy(sorted, db.data.RecentRuns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted[:limit]
}
