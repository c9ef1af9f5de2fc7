package document

import (
	"strings"
	"sync"
)

// Registry 内存文档注册表，最新的文档排在最前。
// 读写锁保护，TUI 任意读取，写入只经过下面的方法。
type Registry struct {
	mu       sync.RWMutex
	docs     []Document // 头部为最近上传
	selected string     // 当前选中文档 ID，空串表示无选中
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{}
}

// Add 把文档插入到列表头部（最近优先）。
func (r *Registry) Add(doc Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append([]Document{doc}, r.docs...)
}

// List 返回全部文档的副本，最近优先。
func (r *Registry) List() []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// Get 按 ID 查找文档。
func (r *Registry) Get(id string) (Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Select 选中指定文档。ID 不存在时保持原选中不变。
func (r *Registry) Select(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == id {
			r.selected = id
			return
		}
	}
}

// Deselect 清空选中
func (r *Registry) Deselect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = ""
}

// Selected 返回当前选中的文档，第二个返回值表示是否有选中。
func (r *Registry) Selected() (Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.selected == "" {
		return Document{}, false
	}
	for _, d := range r.docs {
		if d.ID == r.selected {
			return d, true
		}
	}
	return Document{}, false
}

// Remove 删除指定文档；如果它正被选中，同时清空选中。
// 关联聊天记录的删除由调用方一并完成。
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.docs {
		if d.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			break
		}
	}
	if r.selected == id {
		r.selected = ""
	}
}

// Filter 按展示名做大小写不敏感的子串过滤，不改变存储顺序。
func (r *Registry) Filter(substr string) []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(substr)
	out := make([]Document, 0, len(r.docs))
	for _, d := range r.docs {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			out = append(out, d)
		}
	}
	return out
}
