package document

import "testing"

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(Document{ID: "a", Name: "first.pdf"})
	r.Add(Document{ID: "b", Name: "second.pdf"})

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("期望 2 个文档, 实际为 %d", len(list))
	}
	if list[0].ID != "b" || list[1].ID != "a" {
		t.Errorf("最近上传应排在最前: %v, %v", list[0].ID, list[1].ID)
	}
}

func TestSelectUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Add(Document{ID: "a"})
	r.Select("a")

	r.Select("ghost")

	sel, ok := r.Selected()
	if !ok || sel.ID != "a" {
		t.Errorf("选中不存在的 ID 不应改变现有选中, 实际为 %v/%v", sel.ID, ok)
	}
}

func TestRemoveClearsSelection(t *testing.T) {
	r := NewRegistry()
	r.Add(Document{ID: "a"})
	r.Select("a")

	r.Remove("a")

	if _, ok := r.Selected(); ok {
		t.Error("删除选中文档后应无选中")
	}
	if len(r.List()) != 0 {
		t.Error("文档未被删除")
	}

	// 删除后再选同一 ID 也应保持无选中
	r.Select("a")
	if _, ok := r.Selected(); ok {
		t.Error("选中已删除的 ID 不应生效")
	}
}

func TestRemoveKeepsOtherSelection(t *testing.T) {
	r := NewRegistry()
	r.Add(Document{ID: "a"})
	r.Add(Document{ID: "b"})
	r.Select("b")

	r.Remove("a")

	sel, ok := r.Selected()
	if !ok || sel.ID != "b" {
		t.Errorf("删除其他文档不应影响选中: %v/%v", sel.ID, ok)
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Add(Document{ID: "a", Name: "Report.pdf"})
	r.Add(Document{ID: "b", Name: "invoice.pdf"})

	got := r.Filter("report")
	if len(got) != 1 || got[0].Name != "Report.pdf" {
		t.Errorf("过滤结果错误: %+v", got)
	}

	// 空串匹配全部，且不改变顺序
	all := r.Filter("")
	if len(all) != 2 || all[0].ID != "b" {
		t.Errorf("空过滤应返回全部且保持顺序: %+v", all)
	}
}
