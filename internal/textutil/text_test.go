package textutil

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	got := CleanText("  경치가  좋다 \n\t정말 ")
	if got != "경치가 좋다 정말" {
		t.Fatalf("got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"그냥 텍스트":                                   "그냥 텍스트",
		"<b>야경</b>이 <i>최고</i>":                      "야경이 최고",
		"<p>좋아요</p><script>alert(1)</script>":      "좋아요",
		"<style>p{color:red}</style><div> 맛집 </div>": "맛집",
		"A &amp; B":                                 "A & B",
	}
	for in, want := range cases {
		if got := PlainText(in); got != want {
			t.Errorf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" S1, ,S2,S1 ,")
	if !reflect.DeepEqual(got, []string{"S1", "S2"}) {
		t.Fatalf("got %v", got)
	}
	if SplitList("") != nil {
		t.Fatal("empty input should give nil")
	}
}
