package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // schema version, creation time
	FilesBucket  = []byte("files")  // entry content
	MetaBucket   = []byte("meta")   // entry mode and modification time
)

// Config keys
var (
	ConfigVersion = []byte("version")
	ConfigCreated = []byte("created")
)

// entryMeta is stored in MetaBucket under the entry path
type entryMeta struct {
	Mode     uint32    `json:"mode"`
	Modified time.Time `json:"modified"`
}

// Bolt stores entries as keys in a BBolt database
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens or creates a database at path
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	b := &Bolt{db: db}
	if err := b.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// Close closes the database
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Path returns the database file path
func (b *Bolt) Path() string {
	return b.db.Path()
}

func (b *Bolt) initialize() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, FilesBucket, MetaBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}
		created, _ := time.Now().MarshalBinary()
		return config.Put(ConfigCreated, created)
	})
}

// Exists reports whether path has an entry
func (b *Bolt) Exists(path string) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(FilesBucket).Get([]byte(path)) != nil
		return nil
	})
	return exists, err
}

// Write re-creates the entry for path with mode 0600
func (b *Bolt) Write(path string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(FilesBucket).Put([]byte(path), data); err != nil {
			return fmt.Errorf("failed to store %s: %w", path, err)
		}
		return putMeta(tx, path, entryMeta{Mode: uint32(FilePermDefault), Modified: time.Now()})
	})
}

// Read returns a copy of the entry for path. Entries without any read bit
// are refused with fs.ErrPermission.
func (b *Bolt) Read(path string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		meta, err := getMeta(tx, path)
		if err != nil {
			return err
		}
		if fs.FileMode(meta.Mode)&0444 == 0 {
			return &fs.PathError{Op: "read", Path: path, Err: fs.ErrPermission}
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), tx.Bucket(FilesBucket).Get([]byte(path))...)
		return nil
	})
	return data, err
}

// SetPermissions records mode for the entry at path
func (b *Bolt) SetPermissions(path string, mode os.FileMode) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		meta, err := getMeta(tx, path)
		if err != nil {
			return err
		}
		meta.Mode = uint32(mode.Perm())
		return putMeta(tx, path, meta)
	})
}

// Stat describes the entry at path
func (b *Bolt) Stat(path string) (Info, error) {
	var info Info
	err := b.db.View(func(tx *bolt.Tx) error {
		meta, err := getMeta(tx, path)
		if err != nil {
			return err
		}
		info = Info{
			Path:    path,
			Size:    int64(len(tx.Bucket(FilesBucket).Get([]byte(path)))),
			Mode:    fs.FileMode(meta.Mode),
			ModTime: meta.Modified,
		}
		return nil
	})
	return info, err
}

// Created returns the database creation time
func (b *Bolt) Created() (time.Time, error) {
	var created time.Time
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ConfigBucket).Get(ConfigCreated)
		if data == nil {
			return fmt.Errorf("created time not found")
		}
		return created.UnmarshalBinary(data)
	})
	return created, err
}

func getMeta(tx *bolt.Tx, path string) (entryMeta, error) {
	var meta entryMeta
	if tx.Bucket(FilesBucket).Get([]byte(path)) == nil {
		return meta, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	data := tx.Bucket(MetaBucket).Get([]byte(path))
	if data == nil {
		meta.Mode = uint32(FilePermDefault)
		return meta, nil
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("corrupt metadata for %s: %w", path, err)
	}
	return meta, nil
}

func putMeta(tx *bolt.Tx, path string, meta entryMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return tx.Bucket(MetaBucket).Put([]byte(path), data)
}

// Compact creates a compacted copy of the database, removing unused space.
func (b *Bolt) Compact() error {
	srcPath := b.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = b.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})
	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}
	if err := b.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	b.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	return nil
}
