package domain

// ResultSet 表格化查询结果：列头 + 行元组。
// 报表与视图读取统一返回该结构，由展示方负责渲染。
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Empty 结果集是否无行
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Rows) == 0
}
