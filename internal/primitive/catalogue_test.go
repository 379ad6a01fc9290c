package primitive

import "testing"

func TestLoadEmbedded(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() == 0 {
		t.Fatal("empty catalogue")
	}
	again, _ := Load()
	if again != cat {
		t.Error("Load must return the same instance")
	}
}

func TestLookup(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	frac := cat.Lookup("\\frac")
	if frac == nil {
		t.Fatal("\\frac missing")
	}
	if frac.Mode != ModeMath {
		t.Errorf("\\frac mode = %v", frac.Mode)
	}
	if !frac.Snippet || frac.InsertText == "" {
		t.Error("\\frac should insert a snippet")
	}
	if cat.Lookup("no-such-primitive") != nil {
		t.Error("unknown name must return nil")
	}
}

func TestByModePartition(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	total := 0
	for _, m := range []Mode{ModeProgram, ModeInline, ModeBlock, ModeMath} {
		for _, e := range cat.ByMode(m) {
			if e.Mode != m {
				t.Errorf("%s listed under %v", e.Name, m)
			}
			total++
		}
	}
	if total != cat.Len() {
		t.Errorf("modes partition %d entries, catalogue has %d", total, cat.Len())
	}
}

func TestParseRejectsBadMode(t *testing.T) {
	_, err := parse([]byte("[[primitive]]\nname = \"x\"\nmode = \"nope\"\n"))
	if err == nil {
		t.Error("bad mode must fail")
	}
}

func TestParseRejectsDuplicate(t *testing.T) {
	src := "[[primitive]]\nname = \"x\"\nmode = \"program\"\n" +
		"[[primitive]]\nname = \"x\"\nmode = \"math\"\n"
	if _, err := parse([]byte(src)); err == nil {
		t.Error("duplicate name must fail")
	}
}
