package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// CalculateMD5 计算字节内容的MD5十六进制摘要。
// 上传去重和解析文本缓存键都以该摘要作为指纹。
func CalculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
