package audio

import (
	"context"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"z-story-ai-api/internal/domain/entity"
	apperrors "z-story-ai-api/pkg/errors"
)

type fakeSynth struct {
	chunks []string
	err    error

	text  string
	voice entity.VoiceSettings
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string, voice entity.VoiceSettings) (io.ReadCloser, error) {
	f.text = text
	f.voice = voice
	if f.err != nil {
		return nil, f.err
	}
	readers := make([]io.Reader, 0, len(f.chunks))
	for _, c := range f.chunks {
		readers = append(readers, strings.NewReader(c))
	}
	return io.NopCloser(io.MultiReader(readers...)), nil
}

type fakeStore struct {
	exists  bool
	putErr  error
	calls   []string
	key     string
	body    string
	ctype   string
	expiry  time.Duration
	buckets []string
}

func (s *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	s.calls = append(s.calls, "exists")
	return s.exists, nil
}

func (s *fakeStore) MakeBucket(ctx context.Context, bucket string) error {
	s.calls = append(s.calls, "make")
	s.buckets = append(s.buckets, bucket)
	return nil
}

func (s *fakeStore) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	s.calls = append(s.calls, "put")
	if s.putErr != nil {
		return s.putErr
	}
	b, _ := io.ReadAll(r)
	s.key, s.body, s.ctype = key, string(b), contentType
	return nil
}

func (s *fakeStore) PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	s.calls = append(s.calls, "presign")
	s.expiry = expiry
	return "https://minio.local/" + bucket + "/" + key, nil
}

var testVoice = entity.VoiceSettings{
	VoiceID:         "pNInz6obpgDQGcFmaJgB",
	ModelID:         "eleven_turbo_v2_5",
	OutputFormat:    "mp3_22050_32",
	SimilarityBoost: 1,
	UseSpeakerBoost: true,
}

func TestGenerateCreatesMissingBucket(t *testing.T) {
	synth := &fakeSynth{chunks: []string{"ID3", "-frame1", "-frame2"}}
	store := &fakeStore{exists: false}
	g := NewGenerator(synth, store, Options{Voice: testVoice, Bucket: "audio-files"})

	asset, err := g.Generate(context.Background(), "Once upon a time")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if want := []string{"exists", "make", "put", "presign"}; !reflect.DeepEqual(store.calls, want) {
		t.Errorf("calls = %v, want %v", store.calls, want)
	}
	if store.body != "ID3-frame1-frame2" {
		t.Errorf("body = %q, want concatenated chunks", store.body)
	}
	if store.ctype != "audio/mpeg" {
		t.Errorf("content type = %q", store.ctype)
	}
	if !regexp.MustCompile(`^audio_[0-9a-f-]{36}\.mp3$`).MatchString(store.key) {
		t.Errorf("key = %q", store.key)
	}
	if store.expiry != 7*24*time.Hour {
		t.Errorf("expiry = %v, want 7 days", store.expiry)
	}
	if !strings.HasSuffix(asset.URL, store.key) {
		t.Errorf("url = %q", asset.URL)
	}
	if synth.voice != testVoice || synth.text != "Once upon a time" {
		t.Errorf("synth got %+v %q", synth.voice, synth.text)
	}
}

func TestGenerateSkipsExistingBucket(t *testing.T) {
	store := &fakeStore{exists: true}
	g := NewGenerator(&fakeSynth{chunks: []string{"x"}}, store, Options{Bucket: "audio-files"})

	if _, err := g.Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if want := []string{"exists", "put", "presign"}; !reflect.DeepEqual(store.calls, want) {
		t.Errorf("calls = %v, want %v", store.calls, want)
	}
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		synth   *fakeSynth
		store   *fakeStore
		text    string
		code    apperrors.ErrorCode
		wantMsg string
	}{
		{
			name:  "blank text",
			synth: &fakeSynth{},
			store: &fakeStore{},
			text:  "  ",
			code:  apperrors.CodeInvalidParam,
		},
		{
			name:    "tts error",
			synth:   &fakeSynth{err: errors.New("quota exceeded")},
			store:   &fakeStore{},
			text:    "hi",
			code:    apperrors.CodeAudioGenFailed,
			wantMsg: "quota exceeded",
		},
		{
			name:    "upload error",
			synth:   &fakeSynth{chunks: []string{"x"}},
			store:   &fakeStore{exists: true, putErr: errors.New("bucket is read only")},
			text:    "hi",
			code:    apperrors.CodeAudioGenFailed,
			wantMsg: "bucket is read only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.synth, tt.store, Options{Bucket: "audio-files"})
			asset, err := g.Generate(context.Background(), tt.text)
			if asset != nil {
				t.Errorf("asset = %+v, want nil", asset)
			}
			if !apperrors.IsCode(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if tt.wantMsg != "" && apperrors.AsAppError(err).Cause() != tt.wantMsg {
				t.Errorf("cause = %q, want %q", apperrors.AsAppError(err).Cause(), tt.wantMsg)
			}
		})
	}
}
