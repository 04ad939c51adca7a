/*
Copyright 2019 Oraspace, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rsp

const (
	// InstallTemplate is the response file for the silent database
	// software installation
	InstallTemplate = "db_install"
	// ListenerTemplate is the response file for the network
	// configuration assistant
	ListenerTemplate = "netca"
	// DatabaseTemplate is the response file for the database
	// configuration assistant
	DatabaseTemplate = "dbca"
	// RepoTemplate is the yum repository configuration for the
	// Oracle Linux public repository
	RepoTemplate = "public-yum"
)

var templates = map[string]string{
	InstallTemplate:  installTemplate,
	ListenerTemplate: listenerTemplate,
	DatabaseTemplate: databaseTemplate,
	RepoTemplate:     repoTemplate,
}

const installTemplate = `oracle.install.responseFileVersion=/oracle/install/rspfmt_dbinstall_response_schema_v11_2_0
oracle.install.option=INSTALL_DB_SWONLY
ORACLE_HOSTNAME={{.ORACLE_HOSTNAME}}
UNIX_GROUP_NAME={{.UNIX_GROUP_NAME}}
INVENTORY_LOCATION={{.INVENTORY_LOCATION}}
SELECTED_LANGUAGES=en
ORACLE_HOME={{.ORACLE_HOME}}
ORACLE_BASE={{.ORACLE_BASE}}
oracle.install.db.InstallEdition=EE
oracle.install.db.EEOptionsSelection=false
oracle.install.db.DBA_GROUP=dba
oracle.install.db.OPER_GROUP=dba
oracle.install.db.config.starterdb.type=GENERAL_PURPOSE
DECLINE_SECURITY_UPDATES=true
`

const listenerTemplate = `[GENERAL]
RESPONSEFILE_VERSION="11.2"
CREATE_TYPE="CUSTOM"
[oracle.net.ca]
INSTALLED_COMPONENTS={"server","net8","javavm"}
INSTALL_TYPE=""typical""
LISTENER_NUMBER=1
LISTENER_NAMES={"LISTENER"}
LISTENER_PROTOCOLS={"TCP;{{.LISTENER_PORT}}"}
LISTENER_START=""LISTENER""
NAMING_METHODS={"TNSNAMES","ONAMES","HOSTNAME"}
NSN_NUMBER=1
NSN_NAMES={"EXTPROC_CONNECTION_DATA"}
NSN_SERVICE={"PLSExtProc"}
NSN_PROTOCOLS={"TCP;{{.ORACLE_HOSTNAME}};{{.LISTENER_PORT}}"}
`

const databaseTemplate = `[GENERAL]
RESPONSEFILE_VERSION="11.2.0"
OPERATION_TYPE="createDatabase"
[CREATEDATABASE]
GDBNAME="{{.ORACLE_SID}}"
SID="{{.ORACLE_SID}}"
TEMPLATENAME="General_Purpose.dbc"
SYSPASSWORD="{{.SYS_PASSWORD}}"
SYSTEMPASSWORD="{{.SYS_PASSWORD}}"
EMCONFIGURATION="LOCAL"
DBSNMPPASSWORD="{{.SYS_PASSWORD}}"
SYSMANPASSWORD="{{.SYS_PASSWORD}}"
CHARACTERSET="AL32UTF8"
NATIONALCHARACTERSET="AL16UTF16"
MEMORYPERCENTAGE="40"
`

const repoTemplate = `[ol6_latest]
name=Oracle Linux $releasever Latest ($basearch)
baseurl=http://public-yum.oracle.com/repo/OracleLinux/OL6/latest/$basearch/
gpgkey=http://public-yum.oracle.com/RPM-GPG-KEY-oracle-ol6
gpgcheck=1
enabled=1

[ol6_addons]
name=Oracle Linux $releasever Add ons ($basearch)
baseurl=http://public-yum.oracle.com/repo/OracleLinux/OL6/addons/$basearch/
gpgkey=http://public-yum.oracle.com/RPM-GPG-KEY-oracle-ol6
gpgcheck=1
enabled=1
`
