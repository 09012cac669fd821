package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tobsdb/pdb/internal/auth"
	. "github.com/tobsdb/pdb/internal/config"
	"github.com/tobsdb/pdb/internal/storage"
	"github.com/tobsdb/pdb/pkg"
	"gotest.tools/assert"
)

func TestLoad(t *testing.T) {
	// keep a stray ./pdb.yaml out of the way
	wd, err := os.Getwd()
	assert.NilError(t, err)
	assert.NilError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(nil)
		assert.NilError(t, err)
		assert.Equal(t, cfg.DataDir, ".")
		assert.Equal(t, cfg.Storage, "file")
		assert.Equal(t, cfg.Listen, ":7085")
		assert.Equal(t, cfg.GetLogLevel(), pkg.LogLevelErrOnly)
		assert.Equal(t, cfg.File, "")

		user, err := cfg.User()
		assert.NilError(t, err)
		assert.Assert(t, user == nil)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.yaml")
		content := "data_dir: /var/pdb\nlog_level: debug\ns3:\n  bucket: from-file\n"
		assert.NilError(t, os.WriteFile(path, []byte(content), 0644))

		flags := Flags("pdb")
		assert.NilError(t, flags.Parse([]string{"--config", path}))
		cfg, err := Load(flags)
		assert.NilError(t, err)
		assert.Equal(t, cfg.File, path)
		assert.Equal(t, cfg.DataDir, "/var/pdb")
		assert.Equal(t, cfg.GetLogLevel(), pkg.LogLevelDebug)
		assert.Equal(t, cfg.S3.Bucket, "from-file")
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("PDB_DATA_DIR", "/tmp/env")
		t.Setenv("PDB_STORAGE", "s3")
		t.Setenv("PDB_S3_BUCKET", "bucket")
		t.Setenv("PDB_S3_ACCESS_KEY", "key")
		t.Setenv("PDB_AUTH_USERNAME", "ann")
		t.Setenv("PDB_SERVE", "true")

		cfg, err := Load(nil)
		assert.NilError(t, err)
		assert.Equal(t, cfg.DataDir, "/tmp/env")
		assert.Equal(t, cfg.Serve, true)
		assert.Equal(t, cfg.Auth.Username, "ann")

		opts := cfg.StorageOptions()
		assert.Equal(t, opts.Kind, storage.KindS3)
		assert.Equal(t, opts.S3.Bucket, "bucket")
		assert.Equal(t, opts.S3.AccessKey, "key")
	})

	t.Run("flags win", func(t *testing.T) {
		t.Setenv("PDB_DATA_DIR", "/tmp/env")
		flags := Flags("pdb")
		assert.NilError(t, flags.Parse([]string{
			"-d", "/tmp/flag", "-m", "--serve", "-u", "ann", "-p", "secret", "--role", "readonly", "--s3-prefix", "x",
		}))

		cfg, err := Load(flags)
		assert.NilError(t, err)
		assert.Equal(t, cfg.DataDir, "/tmp/flag")
		assert.Equal(t, cfg.Storage, "memory")
		assert.Equal(t, cfg.Serve, true)
		assert.Equal(t, cfg.S3.Prefix, "x")

		user, err := cfg.User()
		assert.NilError(t, err)
		assert.Equal(t, user.Role, auth.UserRoleReadOnly)
		assert.Assert(t, user.ValidateUser("ann", "secret"))
	})

	t.Run("invalid", func(t *testing.T) {
		for key, value := range map[string]string{
			"PDB_STORAGE":   "ftp",
			"PDB_LOG_LEVEL": "loud",
			"PDB_AUTH_ROLE": "root",
		} {
			t.Setenv(key, value)
			_, err := Load(nil)
			assert.Assert(t, err != nil, key)
			os.Unsetenv(key)
		}

		t.Setenv("PDB_STORAGE", "s3")
		_, err := Load(nil)
		assert.ErrorContains(t, err, "s3.bucket")
	})
}
