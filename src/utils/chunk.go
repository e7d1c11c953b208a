package utils

// ChunkStrings 按固定大小切分字符串列表，size<=0时返回单个分片
func ChunkStrings(arr []string, size int) [][]string {
	if len(arr) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]string{arr}
	}
	var chunks [][]string
	for start := 0; start < len(arr); start += size {
		end := start + size
		if end > len(arr) {
			end = len(arr)
		}
		chunks = append(chunks, arr[start:end])
	}
	return chunks
}
