package typeid

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

type record struct {
	ID     TypeID  `json:"id" yaml:"id"`
	Parent *TypeID `json:"parent,omitempty" yaml:"parent,omitempty"`
}

func TestTypeID_JSON(t *testing.T) {
	tid := MustParse("user_01h45z113fexh8c1at7axm1r75")

	data, err := json.Marshal(record{ID: tid})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"id":"user_01h45z113fexh8c1at7axm1r75"}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	var got record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.ID != tid {
		t.Errorf("json.Unmarshal() = %v, want %v", got.ID, tid)
	}
}

func TestTypeID_JSON_Invalid(t *testing.T) {
	var got record
	err := json.Unmarshal([]byte(`{"id":"user_short"}`), &got)
	if !errors.Is(err, ErrInvalidSuffix) {
		t.Errorf("json.Unmarshal() error = %v, want ErrInvalidSuffix", err)
	}
}

func TestTypeID_YAML(t *testing.T) {
	tid := MustParse("post_01h455vb4pex5vsknk084sn02q")
	parent := MustParse("user_01h45z113fexh8c1at7axm1r75")
	in := record{ID: tid, Parent: &parent}

	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	want := "id: post_01h455vb4pex5vsknk084sn02q\nparent: user_01h45z113fexh8c1at7axm1r75\n"
	if string(data) != want {
		t.Errorf("yaml.Marshal() = %q, want %q", data, want)
	}

	var out record
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(in, out, cmp.Comparer(func(a, b TypeID) bool { return a == b })); diff != "" {
		t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeID_Scan(t *testing.T) {
	want := MustParse("user_01h45z113fexh8c1at7axm1r75")

	tests := []struct {
		name    string
		src     interface{}
		want    TypeID
		wantErr bool
	}{
		{name: "string", src: "user_01h45z113fexh8c1at7axm1r75", want: want},
		{name: "bytes", src: []byte("user_01h45z113fexh8c1at7axm1r75"), want: want},
		{name: "nil", src: nil},
		{name: "empty string", src: ""},
		{name: "invalid string", src: "user_short", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse("seed_01h455vb4pex5vsknk084sn02q")
			err := got.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeID_Value(t *testing.T) {
	tid := MustParse("user_01h45z113fexh8c1at7axm1r75")
	v, err := tid.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != "user_01h45z113fexh8c1at7axm1r75" {
		t.Errorf("Value() = %v", v)
	}

	var back TypeID
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan(Value()) error = %v", err)
	}
	if back != tid {
		t.Errorf("Scan(Value()) = %v, want %v", back, tid)
	}
}
