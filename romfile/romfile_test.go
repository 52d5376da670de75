package romfile

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() []byte {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i*7 + i>>8)
	}
	return data
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"waves.bin", Raw},
		{"waves.ZST", Zstd},
		{"dir/waves.zstd", Zstd},
		{"waves.bin.gz", Gzip},
		{"waves.xz", XZ},
		{"waves.lz4", LZ4},
		{"waves", Raw},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.path), tt.path)
	}
}

func TestLoad_AllCompressions(t *testing.T) {
	data := testImage()
	for _, name := range []string{"w.bin", "w.zst", "w.gz", "w.xz", "w.lz4"} {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, Write(fs, name, data))

			img, err := Load(fs, name)
			require.NoError(t, err)
			assert.Equal(t, len(data)/4, img.Len())
			assert.Equal(t, uint32(data[0])|uint32(data[1])<<8|uint32(data[2])<<16|uint32(data[3])<<24, img.ReadWord(0))
		})
	}
}

func TestWrite_Compresses(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := make([]byte, 1<<16)
	require.NoError(t, Write(fs, "zeros.zst", data))
	st, err := fs.Stat("zeros.zst")
	require.NoError(t, err)
	assert.Less(t, st.Size(), int64(len(data)/10))
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "empty.bin", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "odd.bin", []byte{1, 2, 3, 4, 5}, 0o644))
	require.NoError(t, afero.WriteFile(fs, "bad.zst", []byte("not zstd at all"), 0o644))

	_, err := Load(fs, "missing.bin")
	assert.Error(t, err)

	_, err = Load(fs, "empty.bin")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Load(fs, "odd.bin")
	assert.ErrorIs(t, err, ErrNotWords)

	_, err = Load(fs, "bad.zst")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(make([]byte, 8)))
	assert.ErrorIs(t, Validate(make([]byte, 6)), ErrNotWords)
	assert.ErrorIs(t, Validate(nil), ErrEmptyFile)
}

func TestRead_Raw(t *testing.T) {
	data, err := Read(bytes.NewReader([]byte{1, 2, 3, 4}), Raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestCompressionString(t *testing.T) {
	assert.Equal(t, "zstd", Zstd.String())
	assert.Equal(t, "Compression(9)", Compression(9).String())
}
