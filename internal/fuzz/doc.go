// Package fuzztests houses Go fuzz harnesses for the prose pipeline
// (parse -> context roots -> flatten -> check -> reconcile). They guard
// against panics, hangs and findings that point outside the source.
//
// Назначение: прогонять произвольные байты через парсеры и проверку.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
