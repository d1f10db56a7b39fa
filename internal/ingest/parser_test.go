package ingest

import (
	"testing"
)

const sampleLaw = `QUỐC HỘI
Luật số: 68/2020/QH14
LUẬT CƯ TRÚ
Chương I
NHỮNG QUY ĐỊNH CHUNG
Điều 1. Phạm vi điều chỉnh
Luật này quy định về việc thực hiện quyền tự do cư trú của công dân.
Điều 2. Giải thích từ ngữ
Trong Luật này, các từ ngữ dưới đây được hiểu như sau:
1. Chỗ ở hợp pháp là nơi được sử dụng để sinh sống.
2. Cư trú là việc công dân sinh sống tại một địa điểm, gồm:
a) nơi thường trú;
b) nơi tạm trú.
Chương II
QUYỀN CƯ TRÚ
Điều 3. Nguyên tắc cư trú
Tuân thủ Hiến pháp và pháp luật.
`

func find(t *testing.T, chunks []Chunk, id string) Chunk {
	t.Helper()
	for _, c := range chunks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("chunk %s not found in %d chunks", id, len(chunks))
	return Chunk{}
}

func TestExtractMeta(t *testing.T) {
	meta := ExtractMeta(sampleLaw)
	if meta.LawCode != "68/2020/QH14" {
		t.Errorf("unexpected law code: %q", meta.LawCode)
	}
	if meta.LawName != "Luật Cư Trú" {
		t.Errorf("unexpected law name: %q", meta.LawName)
	}
	if meta.LawType != "Luật" {
		t.Errorf("unexpected law type: %q", meta.LawType)
	}
}

func TestParseLawStructure(t *testing.T) {
	meta := ExtractMeta(sampleLaw)
	chunks := ParseLaw(sampleLaw, meta)

	chapter := find(t, chunks, "68/2020/QH14_Chương_I")
	if chapter.Type != "chương" || chapter.Content != "NHỮNG QUY ĐỊNH CHUNG" {
		t.Errorf("unexpected chapter chunk: %+v", chapter)
	}

	article := find(t, chunks, "68/2020/QH14_Chương_I_D1")
	if article.Type != "điều" || article.ParentID != chapter.ID {
		t.Errorf("unexpected article chunk: %+v", article)
	}
	if article.Article != "1" {
		t.Errorf("article number must be bare, got %q", article.Article)
	}
	if article.Content != "Phạm vi điều chỉnh\nLuật này quy định về việc thực hiện quyền tự do cư trú của công dân." {
		t.Errorf("unexpected article content: %q", article.Content)
	}

	clause := find(t, chunks, "68/2020/QH14_Chương_I_D2_K1")
	if clause.Type != "khoản" || clause.ParentID != "68/2020/QH14_Chương_I_D2" {
		t.Errorf("unexpected clause chunk: %+v", clause)
	}
	if clause.Clause != "1" {
		t.Errorf("unexpected clause number: %q", clause.Clause)
	}
	if clause.Content != "Chỗ ở hợp pháp là nơi được sử dụng để sinh sống." {
		t.Errorf("unexpected clause content: %q", clause.Content)
	}

	point := find(t, chunks, "68/2020/QH14_Chương_I_D2_K2_a")
	if point.Type != "điểm" || point.ParentID != "68/2020/QH14_Chương_I_D2_K2" {
		t.Errorf("unexpected point chunk: %+v", point)
	}
	if point.Point != "a" || point.Content != "nơi thường trú;" {
		t.Errorf("unexpected point: %+v", point)
	}

	// Second chapter parsed independently.
	find(t, chunks, "68/2020/QH14_Chương_II_D3")
}

func TestParseLawWithoutChapters(t *testing.T) {
	raw := "Điều 1. Quy định chung\nNội dung điều.\n"
	chunks := ParseLaw(raw, LawMeta{LawName: "Nghị Định Thử", LawCode: "10/2021/NĐ-CP"})

	article := find(t, chunks, "10/2021/NĐ-CP_Văn_bản_không_có_chương_D1")
	if article.Content != "Quy định chung\nNội dung điều." {
		t.Errorf("unexpected content: %q", article.Content)
	}
}

func TestChunkPayload(t *testing.T) {
	chunk := Chunk{
		ID: "c_D1_K2", ParentID: "c_D1", ParentType: "điều", Type: "khoản",
		LawName: "Luật Cư Trú", LawCode: "68/2020/QH14",
		Chapter: "Chương I", Article: "1", Clause: "2",
		Content: "nội dung", LawRef: "Luật Cư Trú, Điều 1, Khoản 2", Category: "law",
	}
	payload := chunk.Payload()
	if payload["parent_id"] != "c_D1" || payload["clause"] != "2" {
		t.Errorf("unexpected payload: %v", payload)
	}
	if _, ok := payload["point"]; ok {
		t.Error("empty fields must be omitted")
	}
}

func TestPointIDIsStable(t *testing.T) {
	if PointID("a_D1") != PointID("a_D1") {
		t.Error("point id must be deterministic")
	}
	if PointID("a_D1") == PointID("a_D2") {
		t.Error("distinct chunks must get distinct ids")
	}
}
