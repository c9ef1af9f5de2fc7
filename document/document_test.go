package document

import "testing"

func TestDisplayNameSingle(t *testing.T) {
	name := DisplayName([]LocalFile{{Name: "계약서.pdf"}})
	if name != "계약서.pdf" {
		t.Errorf("单文件应使用原名, 实际为 %s", name)
	}
}

func TestDisplayNameBundle(t *testing.T) {
	name := DisplayName([]LocalFile{
		{Name: "scan1.png"},
		{Name: "scan2.png"},
		{Name: "scan3.png"},
	})
	if name != "scan1.png 외 2개" {
		t.Errorf("期望 'scan1.png 외 2개', 实际为 %s", name)
	}
}

func TestClassifyKind(t *testing.T) {
	if k := ClassifyKind([]LocalFile{{Name: "report.PDF"}}); k != KindPDF {
		t.Errorf("单个 pdf 应判定为 KindPDF, 实际为 %s", k)
	}
	if k := ClassifyKind([]LocalFile{{Name: "a.png"}}); k != KindImageBundle {
		t.Errorf("单张图片应判定为图片包, 实际为 %s", k)
	}
	if k := ClassifyKind([]LocalFile{{Name: "a.pdf"}, {Name: "b.pdf"}}); k != KindImageBundle {
		t.Errorf("多文件一律判定为图片包, 实际为 %s", k)
	}
}

func TestTotalSizeAndFormat(t *testing.T) {
	total := TotalSize([]LocalFile{{Size: 1 << 20}, {Size: 1 << 19}})
	if total != 1<<20+1<<19 {
		t.Errorf("字节聚合错误: %d", total)
	}
	if s := FormatSize(total); s != "1.5 MB" {
		t.Errorf("期望 '1.5 MB', 实际为 %s", s)
	}
}
